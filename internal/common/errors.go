// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common application errors.
var (
	// Lookup errors.
	ErrNotFound = errors.New("not found")

	// Error classes surfaced by the transaction workflow.
	ErrValidation  = errors.New("validation failed")
	ErrRequest     = errors.New("request rejected")
	ErrTransport   = errors.New("transport failure")
	ErrPersistence = errors.New("persistence failure")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ValidationError reports bad local input. It is never sent over the wire.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// RequestError is a non-success response from the remote service.
type RequestError struct {
	Op         string
	Body       string
	StatusCode int
}

func (e *RequestError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s: server returned %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.StatusCode, body)
}

// Is makes errors.Is(err, ErrRequest) match.
func (e *RequestError) Is(target error) bool {
	return target == ErrRequest
}

// TransportError wraps network failures and undecodable responses.
type TransportError struct {
	Err error
	Op  string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrTransport) match.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// UserMessage turns an error into status line text. action names what was
// attempted, e.g. "update transaction".
func UserMessage(action string, err error) string {
	if err == nil {
		return ""
	}

	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		if validationErr.Field == "amount" {
			return "Amount must be a number."
		}
		return capitalize(validationErr.Error()) + "."
	}

	var requestErr *RequestError
	if errors.As(err, &requestErr) {
		msg := fmt.Sprintf("Failed to %s (HTTP %d).", action, requestErr.StatusCode)
		if body := strings.TrimSpace(requestErr.Body); body != "" {
			msg += " " + truncate(body, 120)
		}
		return msg
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("Timed out while trying to %s.", action)
	}

	return fmt.Sprintf("Network error while trying to %s.", action)
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	var requestErr *RequestError
	if errors.As(err, &requestErr) {
		return requestErr.StatusCode >= 500
	}

	return errors.Is(err, ErrTransport)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// truncate cuts s to n runes, the last three being an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
