// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
	"io/fs"
)

// Common application errors.
var (
	// Catalogue errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrProtectedEntry = errors.New("entry is protected and cannot be removed")

	// Document errors.
	ErrExtraction      = errors.New("document extraction failed")
	ErrUnsupportedFile = errors.New("unsupported file type")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

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

// IsRetryable determines if an error should trigger a retry. Only
// filesystem permission errors qualify: the program that dropped the
// file may still hold it open, and a short wait usually clears the
// condition. Everything else fails the attempt permanently.
func IsRetryable(err error) bool {
	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return errors.Is(err, fs.ErrPermission)
}
