package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// apiError is a non-2xx response from a provider API.
type apiError struct {
	StatusCode int
	Message    string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// isRetryableError reports whether a request should be retried:
// rate limits, server-side failures, and transport errors qualify;
// client errors do not.
func isRetryableError(err error) bool {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae.StatusCode == http.StatusTooManyRequests || ae.StatusCode >= 500
	}
	// Transport-level errors (timeouts, connection resets) are retryable.
	return true
}
