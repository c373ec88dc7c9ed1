// Package ratelimit tracks the rate-limit buckets reported by the platform and
// holds callers back while any known bucket is exhausted.
//
// The limiter never predicts whether a call would exceed a budget. It only reacts
// to observations fed back through Update, typically by RoundTripper after every
// HTTP response.
package ratelimit

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"
)

// DefaultMargin is added to every reset window so callers do not race the
// server-side reset boundary.
const DefaultMargin = 250 * time.Millisecond

// Bucket is the last observation recorded for one bucket key. Nil fields were
// not reported.
type Bucket struct {
	Remaining  *int
	ResetAfter *time.Duration
	ObservedAt time.Time
}

// Limiter is safe for concurrent use. Updates and reads are atomic per bucket;
// there is no lock spanning buckets.
type Limiter struct {
	buckets *xsync.MapOf[string, Bucket]
	margin  time.Duration
	log     *zap.Logger
	now     func() time.Time
}

type Option func(*Limiter)

// WithMargin overrides DefaultMargin.
func WithMargin(d time.Duration) Option {
	return func(l *Limiter) { l.margin = d }
}

func WithLogger(log *zap.Logger) Option {
	return func(l *Limiter) { l.log = log }
}

func New(opts ...Option) *Limiter {
	l := &Limiter{
		buckets: xsync.NewMapOf[string, Bucket](),
		margin:  DefaultMargin,
		log:     zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Update records the latest observation for key, replacing any earlier one.
func (l *Limiter) Update(key string, remaining *int, resetAfter *time.Duration) {
	l.buckets.Store(key, Bucket{
		Remaining:  remaining,
		ResetAfter: resetAfter,
		ObservedAt: l.now(),
	})
	bucketUpdates.Inc()
}

// Bucket returns the last observation for key.
func (l *Limiter) Bucket(key string) (Bucket, bool) {
	return l.buckets.Load(key)
}

// Delay returns how long Await would currently block. Buckets with an unknown
// remaining count or reset window never contribute.
func (l *Limiter) Delay() (time.Duration, string) {
	var (
		longest time.Duration
		worst   string
	)
	now := l.now()
	l.buckets.Range(func(key string, b Bucket) bool {
		if b.Remaining == nil || b.ResetAfter == nil || *b.Remaining > 0 {
			return true
		}
		wait := b.ObservedAt.Add(*b.ResetAfter + l.margin).Sub(now)
		if wait > longest {
			longest, worst = wait, key
		}
		return true
	})
	return longest, worst
}

// Await blocks while any known bucket is exhausted, until its reset window
// (plus margin) has elapsed. It only returns an error if ctx ends first.
func (l *Limiter) Await(ctx context.Context) error {
	wait, key := l.Delay()
	if wait <= 0 {
		return nil
	}

	l.log.Debug("waiting for rate limit reset", zap.String("bucket", key), zap.Duration("wait", wait))
	limiterWaits.Inc()
	start := time.Now()
	defer func() { limiterWaitSeconds.Observe(time.Since(start).Seconds()) }()

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Exhausted records a bucket as having no calls left for retryAfter.
func (l *Limiter) Exhausted(key string, retryAfter time.Duration) {
	zero := 0
	l.Update(key, &zero, &retryAfter)
}
