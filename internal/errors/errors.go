// Package errors classifies the failures of the digest pipeline.
//
// Callers branch on the class, not on message text:
//
//	if errors.Is(err, errors.ErrUnsupportedVariant) {
//	    // report "not yet available"
//	}
//
//	if errors.IsRetriable(err) {
//	    // try the model or the remote API again
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error class.
type Code string

const (
	CodeParseAnomaly       Code = "PARSE_ANOMALY"
	CodeTruncationLoss     Code = "TRUNCATION_LOSS"
	CodeUnsupportedVariant Code = "UNSUPPORTED_VARIANT"
	CodeUpstreamFailure    Code = "UPSTREAM_FAILURE"
	CodeModelFailure       Code = "MODEL_FAILURE"
	CodeValidation         Code = "VALIDATION"
	CodeNotFound           Code = "NOT_FOUND"
)

// Retriable reports whether failures of this class may succeed on a later attempt.
func (c Code) Retriable() bool {
	return c == CodeUpstreamFailure || c == CodeModelFailure
}

// Error is a classified error with a message and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Retriable reports whether the failure may be retried.
func (e *Error) Retriable() bool {
	return e.Code.Retriable()
}

// WithDetails returns a copy carrying details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: details, cause: e.cause}
}

// Sentinel errors for use with errors.Is().
var (
	ErrParseAnomaly       = &Error{Code: CodeParseAnomaly, Message: "parse anomaly"}
	ErrTruncationLoss     = &Error{Code: CodeTruncationLoss, Message: "truncation loss"}
	ErrUnsupportedVariant = &Error{Code: CodeUnsupportedVariant, Message: "unsupported report variant"}
	ErrUpstreamFailure    = &Error{Code: CodeUpstreamFailure, Message: "upstream failure"}
	ErrModelFailure       = &Error{Code: CodeModelFailure, Message: "model failure"}
	ErrValidation         = &Error{Code: CodeValidation, Message: "validation error"}
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "not found"}
)

// IsRetriable reports whether err carries a retriable class anywhere in its chain.
func IsRetriable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retriable()
	}
	return false
}

// ParseAnomalyf creates a parse anomaly error.
func ParseAnomalyf(format string, args ...any) *Error {
	return &Error{Code: CodeParseAnomaly, Message: fmt.Sprintf(format, args...)}
}

// TruncationLossf creates a truncation loss error.
func TruncationLossf(format string, args ...any) *Error {
	return &Error{Code: CodeTruncationLoss, Message: fmt.Sprintf(format, args...)}
}

// UnsupportedVariantf creates an unsupported variant error.
func UnsupportedVariantf(format string, args ...any) *Error {
	return &Error{Code: CodeUnsupportedVariant, Message: fmt.Sprintf(format, args...)}
}

// Upstream wraps a failed source or sink call.
func Upstream(err error, msg string) *Error {
	return &Error{Code: CodeUpstreamFailure, Message: msg, cause: err}
}

// Upstreamf creates an upstream failure with formatted message.
func Upstreamf(format string, args ...any) *Error {
	return &Error{Code: CodeUpstreamFailure, Message: fmt.Sprintf(format, args...)}
}

// Model wraps a failed model call.
func Model(err error, msg string) *Error {
	return &Error{Code: CodeModelFailure, Message: msg, cause: err}
}

// Modelf creates a model failure with formatted message.
func Modelf(format string, args ...any) *Error {
	return &Error{Code: CodeModelFailure, Message: fmt.Sprintf(format, args...)}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}
