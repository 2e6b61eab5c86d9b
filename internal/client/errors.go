package client

import (
	"errors"
	"fmt"
)

// TruncateAt is how much of a remote error body makes it into log lines.
// The full body goes to the error log file.
const TruncateAt = 300

// APIError is a non-2xx response from the management API. Body is the raw
// response body; classification of ignorable failures matches against it.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("management API returned %d: %s", e.StatusCode, e.Truncated(TruncateAt))
}

// Truncated returns at most n characters of the response body.
func (e *APIError) Truncated(n int) string {
	if len(e.Body) <= n {
		return e.Body
	}
	return e.Body[:n]
}

// AsAPIError unwraps err to an *APIError if one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
