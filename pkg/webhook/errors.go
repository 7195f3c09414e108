package webhook

import (
	"errors"
	"fmt"
)

// ErrEndpointNotConfigured is returned when a delivery has no target URL.
var ErrEndpointNotConfigured = errors.New("webhook: endpoint not configured")

// TransportError reports a failed delivery: either the request never produced
// a response (Err set) or the endpoint answered outside the 2xx range.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("webhook: post %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("webhook: post %s: unexpected status %d", e.Endpoint, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Temporary reports whether another attempt could succeed.
func (e *TransportError) Temporary() bool {
	if e.Err != nil {
		return true
	}
	return e.StatusCode >= 500 || e.StatusCode == 429 || e.StatusCode == 408
}
