// internal/feeds/errors.go
package feeds

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Closed error set every adapter maps provider failures onto. The
// scheduler branches on these to decide retry vs backoff vs skip.
var (
	ErrAuth       = errors.New("feeds: authentication failed")
	ErrConnection = errors.New("feeds: connection failed")
	ErrAPI        = errors.New("feeds: provider returned an error")
	ErrParse      = errors.New("feeds: malformed provider response")
	ErrNotFound   = errors.New("feeds: indicator not found")
	ErrConfig     = errors.New("feeds: invalid feed configuration")
)

// RateLimitError signals the provider throttled us. RetryAfter is the
// provider-suggested wait, never zero.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("feeds: %s rate limited, retry after %s", e.Provider, e.RetryAfter)
}

// AsRateLimit unwraps a rate-limit error if the chain carries one
func AsRateLimit(err error) (*RateLimitError, bool) {
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return rle, true
	}
	return nil, false
}

// statusError maps an unexpected HTTP status onto the closed error set
func statusError(provider string, resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s returned %d", ErrAuth, provider, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{Provider: provider, RetryAfter: retryAfterHint(resp)}
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, provider)
	default:
		return fmt.Errorf("%w: %s returned %d", ErrAPI, provider, resp.StatusCode)
	}
}

// retryAfterHint reads the Retry-After header, defaulting to 60s
func retryAfterHint(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 60 * time.Second
}
