// Package apperror defines the error taxonomy shared by the workflow services
// and the HTTP layer.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for status mapping.
type Kind string

const (
	KindNotFound             Kind = "NOT_FOUND"
	KindValidation           Kind = "VALIDATION"
	KindMalformedResponse    Kind = "MALFORMED_RESPONSE"
	KindInvalidResponseShape Kind = "INVALID_RESPONSE_SHAPE"
	KindGateway              Kind = "GATEWAY"
	KindConflict             Kind = "CONFLICT"
)

// Sentinels for errors.Is comparisons. Matching is done on Kind only.
var (
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrValidation           = &Error{Kind: KindValidation}
	ErrMalformedResponse    = &Error{Kind: KindMalformedResponse}
	ErrInvalidResponseShape = &Error{Kind: KindInvalidResponseShape}
	ErrGateway              = &Error{Kind: KindGateway}
	ErrConflict             = &Error{Kind: KindConflict}
)

// Error carries a human-readable message plus optional diagnostics.
type Error struct {
	Kind    Kind
	Message string
	// Details holds structured client-facing diagnostics (e.g. field errors).
	Details any
	// Raw is the offending model output, when there is one.
	Raw string
	Err error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports kind equality so wrapped errors match the package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(message string, details any) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func Malformed(message, raw string, err error) *Error {
	return &Error{Kind: KindMalformedResponse, Message: message, Raw: raw, Err: err}
}

func InvalidShape(message, raw string) *Error {
	return &Error{Kind: KindInvalidResponseShape, Message: message, Raw: raw}
}

func Gateway(message string, err error) *Error {
	return &Error{Kind: KindGateway, Message: message, Err: err}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsGenerationFailure reports whether err came from the generation path
// (gateway, parsing or shape validation).
func IsGenerationFailure(err error) bool {
	switch KindOf(err) {
	case KindGateway, KindMalformedResponse, KindInvalidResponseShape:
		return true
	}
	return false
}
