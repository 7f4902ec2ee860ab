package llm

import (
	"fmt"
	"net/http"

	"github.com/Veraticus/six-degrees/internal/common"
)

// classifyStatus wraps an API error with retry metadata based on the HTTP
// status. Rate limits and server-side failures are worth retrying; other
// client errors (bad key, malformed request) fail the same way every time.
func classifyStatus(status int, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &common.RetryableError{
			Err:       fmt.Errorf("%w: %w", common.ErrRateLimit, err),
			Retryable: true,
		}
	case status >= http.StatusInternalServerError:
		return &common.RetryableError{Err: err, Retryable: true}
	case status >= http.StatusBadRequest:
		return &common.RetryableError{Err: err, Retryable: false}
	default:
		return &common.RetryableError{Err: err, Retryable: true}
	}
}

// transportError marks a network-level failure, which is always worth
// retrying.
func transportError(err error) error {
	return &common.RetryableError{Err: err, Retryable: true}
}
