package strava

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("strava: unauthorized")
	ErrNotFound     = errors.New("strava: not found")
	ErrRateLimited  = errors.New("strava: rate limited")
)

// APIError carries a non-2xx response. It unwraps to the matching sentinel
// so callers can branch with errors.Is. RetryAfter holds the seconds until
// the rate-limit window resets when the API reported them, else zero.
type APIError struct {
	StatusCode int
	Body       string
	RetryAfter int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("strava: api error %d: %s", e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	return nil
}
