package model

import (
	"errors"
	"fmt"
	"time"
)

// Operation-boundary errors. Callers match them with errors.Is.
var (
	ErrValidation     = errors.New("validation error")
	ErrAnalysisFailed = errors.New("analysis failed")
	ErrJobFetchFailed = errors.New("job fetch failed")
	// ErrSuperseded is returned by an operation whose session was replaced
	// by a newer upload while it was in flight.
	ErrSuperseded = errors.New("superseded by a newer session")
)

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// StreamDecodeError reports a progress event whose payload could not be decoded.
// The stream reader skips such events instead of aborting.
type StreamDecodeError struct {
	Payload string
	Err     error
}

func (e *StreamDecodeError) Error() string {
	return fmt.Sprintf("decode stream event %q: %v", e.Payload, e.Err)
}

func (e *StreamDecodeError) Unwrap() error {
	return e.Err
}
