// Package errkind classifies errors from the report pipeline.
// Every component wraps its failures in an *Error so the CLI can map
// them to exit codes and report which step failed.
package errkind

import (
	"errors"
	"fmt"
)

// Kind identifies the class of a pipeline failure.
type Kind int

const (
	// Unknown is the zero value; treated as a backend error.
	Unknown Kind = iota

	// Auth means a token, API key, or credential was rejected.
	Auth

	// RemoteUnavailable means a remote endpoint could not be reached
	// or did not answer in time.
	RemoteUnavailable

	// MalformedResponse means a remote payload could not be parsed
	// into the expected shape.
	MalformedResponse

	// QuotaExceeded means the model endpoint rejected the call due to
	// rate or quota limits.
	QuotaExceeded

	// InputTooLarge means the prompt exceeded the model's input limit.
	// The pipeline never truncates silently.
	InputTooLarge

	// Write means the report could not be written to local storage.
	Write

	// InvalidRecipient means an email recipient address failed validation.
	InvalidRecipient
)

// String returns the stable name of the kind.
func (k Kind) String() string {
	switch k {
	case Auth:
		return "auth"
	case RemoteUnavailable:
		return "remote unavailable"
	case MalformedResponse:
		return "malformed response"
	case QuotaExceeded:
		return "quota exceeded"
	case InputTooLarge:
		return "input too large"
	case Write:
		return "write"
	case InvalidRecipient:
		return "invalid recipient"
	default:
		return "unknown"
	}
}

// Error is a classified pipeline error. Step names the pipeline stage
// that failed ("fetch", "summarize", "write", "notify").
type Error struct {
	Step string
	Kind Kind
	Err  error
}

// New creates a classified error.
func New(step string, kind Kind, err error) *Error {
	return &Error{Step: step, Kind: kind, Err: err}
}

// Newf creates a classified error from a format string.
func Newf(step string, kind Kind, format string, args ...any) *Error {
	return &Error{Step: step, Kind: kind, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Step, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Step, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the Kind from err, or Unknown if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// StepOf extracts the failing step from err, or "" if err is not an *Error.
func StepOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Step
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
