package sources

import (
	"errors"
	"fmt"
)

// Error kinds for upstream failures. They exist for logging/diagnostics;
// callers degrade the same way regardless of kind.
type ErrorKind string

const (
	ErrBadRequest  ErrorKind = "bad_request"  // HTTP 4xx other than 429
	ErrRateLimited ErrorKind = "rate_limited" // HTTP 429
	ErrUpstream    ErrorKind = "upstream"     // HTTP 5xx
	ErrNetwork     ErrorKind = "network"      // no response at all
	ErrDecode      ErrorKind = "decode"       // unexpected response shape
)

type SourceError struct {
	Source string
	Kind   ErrorKind
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

func classifyStatus(status int) ErrorKind {
	switch {
	case status == 429:
		return ErrRateLimited
	case status >= 500:
		return ErrUpstream
	default:
		return ErrBadRequest
	}
}

func srcErr(source string, kind ErrorKind, err error) error {
	return &SourceError{Source: source, Kind: kind, Err: err}
}

// KindOf reports the classification of an upstream error, or "" for
// errors that did not come from a source client.
func KindOf(err error) ErrorKind {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
