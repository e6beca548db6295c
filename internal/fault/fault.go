// Package fault defines the tagged error kinds used across the service.
// Every failure crossing a package boundary carries a Kind so the HTTP
// layer can map it to a status without inspecting message text.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// KindUnknown is the zero value; errors without a fault kind.
	KindUnknown Kind = iota
	// KindConfiguration means a required credential or setting is absent.
	KindConfiguration
	// KindValidation means the inbound request was missing or malformed.
	KindValidation
	// KindUpstream means an external provider was reachable but failed.
	KindUpstream
	// KindTimeout means an external call exceeded its deadline. Treated
	// as upstream for status mapping, but kept distinct for logs.
	KindTimeout
	// KindMalformedResponse means a nominally successful upstream reply
	// could not be parsed.
	KindMalformedResponse
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindValidation:
		return "validation"
	case KindUpstream:
		return "upstream"
	case KindTimeout:
		return "timeout"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// Error is a kinded error with an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates a kinded error from a format string.
func New(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a kinded error around a cause.
func Wrap(kind Kind, cause error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf returns the kind of err, or KindUnknown if err carries none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// Configuration reports whether err is a configuration fault.
func Configuration(err error) bool { return KindOf(err) == KindConfiguration }

// Validation reports whether err is a validation fault.
func Validation(err error) bool { return KindOf(err) == KindValidation }
