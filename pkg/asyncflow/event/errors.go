package event

import (
	"errors"
	"fmt"
)

// ErrListener matches every *ListenerError via errors.Is.
var ErrListener = errors.New("listener failed")

// ListenerError reports the listener that stopped a dispatch.
type ListenerError struct {
	Event  string // Event being emitted
	Global bool   // True if the failing listener was on the global channel
	Index  int    // Position of the listener in the dispatch snapshot
	Err    error  // Error returned by the listener
}

// Error implements error interface.
func (e *ListenerError) Error() string {
	kind := "listener"
	if e.Global {
		kind = "global listener"
	}
	return fmt.Sprintf("event %s: %s %d: %v", e.Event, kind, e.Index, e.Err)
}

// Unwrap returns the error returned by the listener.
func (e *ListenerError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrListener.
func (e *ListenerError) Is(target error) bool {
	return target == ErrListener
}
