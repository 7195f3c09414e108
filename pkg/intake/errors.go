package intake

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnknownField is returned when a value targets an undeclared field.
	ErrUnknownField = errors.New("unknown field")
	// ErrSubmissionInFlight is returned when a form instance already has a
	// submission outstanding.
	ErrSubmissionInFlight = errors.New("intake: submission already in flight")
	// ErrInvalid is matched by every *ValidationError.
	ErrInvalid = errors.New("intake: validation failed")
)

// ValidationError reports the fields that failed their rules. No submission
// was attempted.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("intake: validation failed: %s", strings.Join(names, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}
