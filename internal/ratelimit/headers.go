// internal/ratelimit/headers.go
package ratelimit

import (
	"fmt"
	"net/http"
	"strconv"
)

// SetHeaders attaches the rate-limit headers a decision implies. Bypassed
// decisions carry no headers.
func SetHeaders(w http.ResponseWriter, d Decision) {
	if d.Bypassed {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
}

// WriteRejection emits the 429 response for a rejected decision
func WriteRejection(w http.ResponseWriter, d Decision) {
	SetHeaders(w, d)
	w.Header().Set("Retry-After", strconv.Itoa(d.RetryAfter))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	body := fmt.Sprintf(
		`{"detail":"Rate limit exceeded","error":{"code":"rate_limited","message":"Rate limit exceeded"},"retry_after":%d}`,
		d.RetryAfter)
	_, _ = w.Write([]byte(body))
}
