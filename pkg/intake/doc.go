// Package intake implements the form submission pipeline: an explicit State
// value is validated, serialized to JSON and delivered to a webhook exactly
// once per submit. Pipeline functions take a State and return the next State,
// so callers (terminal prompts, HTTP handlers, tests) own all mutable data.
//
// The submit control follows a small state machine:
//
//	Idle -> Submitting            (submit while values are valid)
//	Submitting -> Succeeded       (2xx from the webhook; values reset to defaults)
//	Submitting -> Failed          (transport error; values kept for retry)
//	Succeeded|Failed -> Submitting (next attempt)
//
// There is no cancellation path for an in-flight submission.
package intake
