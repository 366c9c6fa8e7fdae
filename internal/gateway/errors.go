package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrSessionExpired marks a request that failed authorization and could
	// not be recovered by refreshing; the session has been logged out.
	ErrSessionExpired = errors.New("session expired")

	ErrNoRefreshToken = errors.New("no refresh token")
)

// APIError is any non-2xx response. Message is the server's own text.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// AuthFailure reports whether the response should trigger a token refresh.
func (e *APIError) AuthFailure() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// Message returns the server-supplied message carried by err, or fallback
// when err carries none.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// StatusCode returns the HTTP status behind err, or 0 for transport errors.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
