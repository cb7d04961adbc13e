// Package apperrors defines the error taxonomy shared by the client,
// estimator and CLI. Every failure carries a Kind so callers can branch
// on the class of error without string matching.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	// KindValidation covers locally rejected parameters: bad counts,
	// unsupported durations, quality/size combinations a model does not
	// price, malformed input files.
	KindValidation Kind = "validation"
	// KindModelNotFound means the requested model id is absent from the
	// catalog snapshot (or the remote service).
	KindModelNotFound Kind = "model_not_found"
	// KindAuth covers a missing or rejected API key.
	KindAuth Kind = "auth"
	// KindRateLimit maps to HTTP 429.
	KindRateLimit Kind = "rate_limit"
	// KindInsufficientCredits means the account balance cannot cover the
	// requested generation.
	KindInsufficientCredits Kind = "insufficient_credits"
	// KindGeneration covers provider-side failures after the request was
	// accepted (5xx).
	KindGeneration Kind = "generation"
	// KindNetwork covers connection and timeout failures after retries.
	KindNetwork Kind = "network"
)

// Error is a Kind-tagged error. StatusCode is set when the error was
// derived from an HTTP response, zero otherwise.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := strings.TrimSpace(e.Message)
	if msg != "" {
		return msg
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// New builds a tagged error with a formatted message.
func New(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags an underlying error without discarding it.
func Wrap(kind Kind, cause error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// FromStatus builds a tagged error from an HTTP status code.
func FromStatus(kind Kind, status int, message string) error {
	return &Error{Kind: kind, Message: message, StatusCode: status}
}

// KindOf returns the Kind of err, or "" if err is not a tagged error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsValidation reports whether err is a parameter validation failure.
func IsValidation(err error) bool { return IsKind(err, KindValidation) }

// IsModelNotFound reports whether err is an unknown-model failure.
func IsModelNotFound(err error) bool { return IsKind(err, KindModelNotFound) }
