package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the deployment taxonomy. Check them with errors.Is.
var (
	// ErrIO is returned when the source artifact cannot be read.
	ErrIO = errors.New("fndeploy: cannot read source")

	// ErrSyntax is returned when the packaged code does not parse.
	ErrSyntax = errors.New("fndeploy: invalid javascript")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("fndeploy: invalid configuration")

	// ErrRemoteRejection is returned when the remote accepted the request
	// but rejected the payload.
	ErrRemoteRejection = errors.New("fndeploy: remote rejected deployment")

	// ErrExhaustedRetries is returned when every attempt failed transiently.
	ErrExhaustedRetries = errors.New("fndeploy: retries exhausted")
)

// HTTPStatusError records a response whose status marks the attempt as failed.
type HTTPStatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned %s", e.statusText())
	}
	return fmt.Sprintf("server returned %s: %s", e.statusText(), e.Body)
}

func (e *HTTPStatusError) statusText() string {
	if e.Status != "" {
		return e.Status
	}
	return fmt.Sprintf("%d", e.StatusCode)
}

// RejectionError carries the error messages returned by the remote service.
type RejectionError struct {
	Errors []string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrRemoteRejection.Error(), strings.Join(e.Errors, "; "))
}

func (e *RejectionError) Unwrap() error { return ErrRemoteRejection }

// ExhaustedError is returned after the last allowed attempt failed.
// It matches both ErrExhaustedRetries and the last observed error.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s after %d attempts: %v", ErrExhaustedRetries.Error(), e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() []error {
	if e.Last == nil {
		return []error{ErrExhaustedRetries}
	}
	return []error{ErrExhaustedRetries, e.Last}
}
