package intake

import (
	"context"
	"sync"

	"github.com/goliatone/go-formintake/pkg/model"
)

// Session holds the state of one form instance and allows at most one
// submission in flight. Sequential submits each reach the network; there is no
// de-duplication.
type Session struct {
	pipeline *Pipeline

	mu    sync.Mutex
	state State
}

// NewSession starts an idle form instance with default values.
func NewSession(pipeline *Pipeline, form model.FormModel) *Session {
	return &Session{
		pipeline: pipeline,
		state:    NewState(form),
	}
}

// State returns a snapshot of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Set changes one field. Inputs are locked while a submission is in flight.
func (s *Session) Set(name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Status == StatusSubmitting {
		return ErrSubmissionInFlight
	}
	next, err := s.state.Set(name, value)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// Submit validates and, when valid, submits the current values. A concurrent
// call while Submitting returns ErrSubmissionInFlight without a network call.
func (s *Session) Submit(ctx context.Context) (Result, error) {
	s.mu.Lock()
	if s.state.Status == StatusSubmitting {
		s.mu.Unlock()
		return Result{}, ErrSubmissionInFlight
	}
	validated := s.pipeline.Validate(s.state)
	if len(validated.Errors) > 0 {
		validated.Status = StatusIdle
		s.state = validated
		s.mu.Unlock()
		return Result{}, &ValidationError{Fields: validated.Errors}
	}
	validated.Status = StatusSubmitting
	s.state = validated
	inflight := validated.clone()
	s.mu.Unlock()

	next, result := s.pipeline.Submit(ctx, inflight)

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	return result, nil
}
