package ratelimit

import (
	"net/http"
	"strconv"
	"time"
)

// Response headers the platform uses to report bucket state.
const (
	HeaderBucket     = "X-RateLimit-Bucket"
	HeaderRemaining  = "X-RateLimit-Remaining"
	HeaderResetAfter = "X-RateLimit-Reset-After"
	HeaderGlobal     = "X-RateLimit-Global"
	HeaderScope      = "X-RateLimit-Scope"
	HeaderRetryAfter = "Retry-After"

	// GlobalBucket is the key used for the account-wide limit.
	GlobalBucket = "global"
)

// RoundTripper feeds the rate-limit headers of every response into a Limiter.
type RoundTripper struct {
	Next    http.RoundTripper
	Limiter *Limiter
}

// NewRoundTripper wraps next, or http.DefaultTransport when next is nil.
func NewRoundTripper(next http.RoundTripper, l *Limiter) *RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &RoundTripper{Next: next, Limiter: l}
}

func (rt *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := rt.Next.RoundTrip(req)
	if err != nil || resp == nil {
		return resp, err
	}
	rt.Limiter.Observe(resp.StatusCode, resp.Header)
	return resp, nil
}

// Observe records the bucket state carried by a response's headers. Responses
// without a bucket header are ignored unless they are a global 429.
func (l *Limiter) Observe(status int, h http.Header) {
	if status == http.StatusTooManyRequests {
		scope := h.Get(HeaderScope)
		if scope == "" {
			scope = "user"
		}
		rateLimitedResponses.WithLabelValues(scope).Inc()

		if h.Get(HeaderGlobal) == "true" {
			if retry, ok := parseSeconds(h.Get(HeaderRetryAfter)); ok {
				l.Exhausted(GlobalBucket, retry)
			}
			return
		}
	}

	key := h.Get(HeaderBucket)
	if key == "" {
		return
	}

	var (
		remaining  *int
		resetAfter *time.Duration
	)
	if n, err := strconv.Atoi(h.Get(HeaderRemaining)); err == nil {
		remaining = &n
	}
	if d, ok := parseSeconds(h.Get(HeaderResetAfter)); ok {
		resetAfter = &d
	}
	l.Update(key, remaining, resetAfter)
}

func parseSeconds(s string) (time.Duration, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return time.Duration(f * float64(time.Second)), true
}
