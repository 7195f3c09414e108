package intake

import (
	"fmt"

	"github.com/goliatone/go-formintake/pkg/model"
)

// Status is the submit control state.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

// ReasonTransport is the only failure reason surfaced to users.
const ReasonTransport = "transport error"

// Result is the transient outcome of one submit attempt.
// Err holds the underlying cause of a failure for logging; it is never shown
// to users.
type Result struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
	Err     error  `json:"-"`
}

// Success is the outcome of a delivered submission.
func Success() Result {
	return Result{Success: true}
}

// Failure is the outcome of a submission that could not be delivered.
func Failure(reason string) Result {
	return Result{Reason: reason}
}

// State is one form instance: its definition, the values as currently
// entered, the last validation errors and the submit control status.
type State struct {
	Form   model.FormModel
	Values map[string]any
	Errors map[string]string
	Status Status
}

// NewState returns an idle state with every field at its default.
func NewState(form model.FormModel) State {
	return State{
		Form:   form,
		Values: form.Defaults(),
		Status: StatusIdle,
	}
}

// Set returns a copy of s with one field changed. Unknown fields are rejected
// because the field set is fixed.
func (s State) Set(name string, value any) (State, error) {
	if _, ok := s.Form.Field(name); !ok {
		return s, fmt.Errorf("intake: %w: %q", ErrUnknownField, name)
	}
	next := s.clone()
	next.Values[name] = value
	return next, nil
}

// SetAll applies values field by field, stopping at the first unknown field.
func (s State) SetAll(values map[string]any) (State, error) {
	next := s.clone()
	for name, value := range values {
		if _, ok := s.Form.Field(name); !ok {
			return s, fmt.Errorf("intake: %w: %q", ErrUnknownField, name)
		}
		next.Values[name] = model.CloneValue(value)
	}
	return next, nil
}

// Reset returns an idle state with default values.
func (s State) Reset() State {
	return NewState(s.Form)
}

func (s State) clone() State {
	next := s
	next.Values = model.CloneValues(s.Values)
	if next.Values == nil {
		next.Values = make(map[string]any)
	}
	if s.Errors != nil {
		next.Errors = make(map[string]string, len(s.Errors))
		for k, v := range s.Errors {
			next.Errors[k] = v
		}
	}
	return next
}
