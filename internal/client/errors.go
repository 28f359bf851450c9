package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnreachable wraps every transport failure: refused connections,
// timeouts, unreadable responses.
var ErrUnreachable = errors.New("habit service unreachable")

// APIError is a request the service answered with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("habit service returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("habit service returned %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError carrying status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// UserMessage is the text to show for a failed call: the service's own message
// when it sent one, the fallback otherwise.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
