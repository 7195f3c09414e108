// Package webhook delivers intake payloads to an external HTTP endpoint. A
// delivery is a single JSON POST; only the response status matters and the
// body is drained and discarded. Retries are off by default. When enabled they
// are bounded and every attempt of one delivery carries the same
// Idempotency-Key header.
package webhook
