// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound          = errors.New("not found")
	ErrDatabaseCorrupted = errors.New("database corrupted")

	// Pipeline errors.
	ErrInvalidBatch     = errors.New("invalid message batch")
	ErrNoMessages       = errors.New("no messages to process")
	ErrExtractionFailed = errors.New("extraction failed")

	// Gmail errors.
	ErrGmailConnection = errors.New("gmail connection failed")
	ErrTokenExpired    = errors.New("oauth token expired")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// IsRetryable determines if an error should trigger a retry. Errors are
// retryable unless explicitly marked otherwise; rate limits always are.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return true
}
