// Package openapi exports form payload contracts as OpenAPI 3 documents using
// kin-openapi. The exported schema accepts every payload the validation
// package reports as valid.
package openapi
