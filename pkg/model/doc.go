// Package model defines the typed form model shared by the validator, the
// intake pipeline and the front-ends. A FormModel declares a fixed field set at
// design time; validation rules use canonical identifiers (min/max,
// minLength/maxLength, pattern) with string parameters so definitions loaded
// from YAML and definitions built in Go produce identical JSON snapshots. A rule
// may carry a human-readable message in Params["message"] that the validator
// reports verbatim when the rule fails.
package model
