package llm

import (
	"errors"
	"net/http"
	"os/exec"
	"strings"
)

// rejectedError marks a request the backend refused outright. Sending it again cannot
// succeed, so Guard gives up on it immediately.
type rejectedError struct {
	err error
}

func (e *rejectedError) Error() string { return e.err.Error() }
func (e *rejectedError) Unwrap() error { return e.err }

func rejected(err error) error {
	return &rejectedError{err: err}
}

// IsRejected reports whether err is a permanent refusal from a backend.
func IsRejected(err error) bool {
	var r *rejectedError
	return errors.As(err, &r)
}

// transientStatus reports whether an HTTP status is worth another attempt.
func transientStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= 500
}

// isPermanentGeminiError matches client-side API errors: bad request, bad key, unknown model.
func isPermanentGeminiError(err error) bool {
	msg := err.Error()
	for _, marker := range []string{
		"Error 400", "Error 401", "Error 403", "Error 404",
		"INVALID_ARGUMENT", "UNAUTHENTICATED", "PERMISSION_DENIED", "NOT_FOUND", "FAILED_PRECONDITION",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// isMissingBinary reports whether the command could not be started at all.
func isMissingBinary(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, exec.ErrDot)
}
