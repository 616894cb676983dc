package models

import (
	"errors"
	"fmt"
)

// ErrIndexNotReady is returned when a query arrives before any catalog has
// ever been loaded, so not even the keyword fallback can run.
var ErrIndexNotReady = errors.New("index not ready: no catalog loaded")

// ErrEmbeddingProvider tags provider failures. Wrapped errors carrying it are
// recovered internally by falling back to keyword search and are never
// surfaced to callers of the search API.
var ErrEmbeddingProvider = errors.New("embedding provider error")

// ParseError reports a malformed catalog source. The load attempt that hit it
// fails; a previously built index, if any, keeps serving.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("catalog parse error: %s", e.Reason)
}
