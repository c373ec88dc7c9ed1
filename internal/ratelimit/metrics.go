package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var bucketUpdates = promauto.NewCounter(prometheus.CounterOpts{
	Name: "herald_ratelimit_bucket_updates",
	Help: "Number of rate-limit bucket observations recorded",
})

var limiterWaits = promauto.NewCounter(prometheus.CounterOpts{
	Name: "herald_ratelimit_waits",
	Help: "Number of outbound calls held back by an exhausted bucket",
})

var limiterWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "herald_ratelimit_wait_seconds",
	Help:    "Time outbound calls spent waiting for a bucket reset",
	Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
})

var rateLimitedResponses = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "herald_ratelimit_429_responses",
	Help: "Number of 429 responses seen, by scope",
}, []string{"scope"})
