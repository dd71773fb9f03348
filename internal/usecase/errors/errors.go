package errors

import (
	"errors"
	"fmt"
)

// Kind classifies failures surfaced by the digest pipeline
type Kind int

const (
	// KindInvalidRequest marks malformed input or unparseable model output
	KindInvalidRequest Kind = iota + 1
	// KindNotFound marks a lookup with nothing to work on
	KindNotFound
	// KindOutputValidation marks model output rejected by the guardrail
	KindOutputValidation
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid_request"
	case KindNotFound:
		return "not_found"
	case KindOutputValidation:
		return "output_validation"
	default:
		return "unknown"
	}
}

// Error is a classified pipeline error
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable is always false: repeating a classified request yields the same failure
func (e *Error) Retryable() bool {
	return false
}

// InvalidRequest creates a KindInvalidRequest error
func InvalidRequest(format string, args ...any) error {
	return &Error{Kind: KindInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a KindNotFound error
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// OutputValidation creates a KindOutputValidation error
func OutputValidation(format string, args ...any) error {
	return &Error{Kind: KindOutputValidation, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error
func Wrap(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of the first classified error in err's chain
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
