package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies failures so callers can react without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	// KindUnsupportedFormat marks a file extension the tool does not recognize.
	KindUnsupportedFormat
	// KindNotImplemented marks a recognized format without an implementation (ASS).
	KindNotImplemented
	// KindFormat marks subtitle text that fails to parse, whether from an
	// input file or from a model response.
	KindFormat
	// KindAuth marks a missing or rejected API key.
	KindAuth
	// KindService marks a network or service level failure from the remote call.
	KindService
	// KindIO marks filesystem failures: missing input, unwritable directories.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindUnsupportedFormat:
		return "UnsupportedFormat"
	case KindNotImplemented:
		return "NotImplemented"
	case KindFormat:
		return "Format"
	case KindAuth:
		return "Auth"
	case KindService:
		return "Service"
	case KindIO:
		return "IO"
	default:
		return "Unknown"
	}
}

// Error carries a kind, a message and optional key/value context.
type Error struct {
	Kind    Kind
	Message string
	Context map[string]any
	Cause   error
}

func New(kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Context: make(map[string]any),
	}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

func Wrap(err error, kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Context: make(map[string]any),
		Cause:   err,
	}
}

func (e *Error) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s] %s", e.Kind.String(), e.Message))

	if len(e.Context) > 0 {
		var ctxParts []string
		for k, v := range e.Context {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("context: %s", strings.Join(ctxParts, ", ")))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}

	return strings.Join(parts, " | ")
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) WithContext(key string, value any) *Error {
	e.Context[key] = value
	return e
}

// IsKind reports whether err or anything it wraps carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
