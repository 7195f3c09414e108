package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoPipeline is returned by Run when no intake pipeline is supplied.
	ErrNoPipeline = errors.New("tui: intake pipeline is required")
)
