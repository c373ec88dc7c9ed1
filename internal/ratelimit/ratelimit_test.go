package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func intp(n int) *int                     { return &n }
func durp(d time.Duration) *time.Duration { return &d }

func TestAwaitBlocksOnExhaustedBucket(t *testing.T) {
	l := New(WithMargin(10 * time.Millisecond))
	l.Update("channel:1", intp(0), durp(500*time.Millisecond))

	start := time.Now()
	require.NoError(t, l.Await(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 500*time.Millisecond)
}

func TestAwaitReturnsImmediatelyWithCapacity(t *testing.T) {
	l := New()
	l.Update("channel:1", intp(5), durp(time.Hour))

	start := time.Now()
	require.NoError(t, l.Await(context.Background()))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestUnknownFieldsNeverBlock(t *testing.T) {
	l := New()
	l.Update("a", nil, durp(time.Hour))
	l.Update("b", intp(0), nil)

	wait, _ := l.Delay()
	assert.Zero(t, wait)
	require.NoError(t, l.Await(context.Background()))
}

func TestUpdateIsLastObservationWins(t *testing.T) {
	l := New()
	l.Update("a", intp(0), durp(time.Hour))
	l.Update("a", intp(3), durp(time.Hour))

	b, ok := l.Bucket("a")
	require.True(t, ok)
	assert.Equal(t, 3, *b.Remaining)
	wait, _ := l.Delay()
	assert.Zero(t, wait)
}

func TestDelayPicksLongestWindow(t *testing.T) {
	l := New(WithMargin(0))
	l.Update("short", intp(0), durp(time.Second))
	l.Update("long", intp(-1), durp(time.Minute))

	wait, key := l.Delay()
	assert.Equal(t, "long", key)
	assert.InDelta(t, float64(time.Minute), float64(wait), float64(time.Second))
}

func TestDelayCountsFromObservation(t *testing.T) {
	clock := time.Unix(1000, 0)
	l := New(WithMargin(100 * time.Millisecond))
	l.now = func() time.Time { return clock }
	l.Exhausted("a", time.Second)

	wait, _ := l.Delay()
	assert.Equal(t, 1100*time.Millisecond, wait)

	clock = clock.Add(600 * time.Millisecond)
	wait, _ = l.Delay()
	assert.Equal(t, 500*time.Millisecond, wait)

	clock = clock.Add(time.Second)
	wait, _ = l.Delay()
	assert.Zero(t, wait)
}

func TestAwaitHonoursContext(t *testing.T) {
	l := New()
	l.Exhausted("a", time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Await(ctx), context.DeadlineExceeded)
}

func TestConcurrentUpdatesAndAwaits(t *testing.T) {
	l := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			l.Update("bucket", intp(i+1), durp(time.Millisecond))
		}(i)
		go func() {
			defer wg.Done()
			_ = l.Await(context.Background())
		}()
	}
	wg.Wait()
	_, ok := l.Bucket("bucket")
	assert.True(t, ok)
}

func TestRoundTripperObservesHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(HeaderBucket, "abcd")
		w.Header().Set(HeaderRemaining, "0")
		w.Header().Set(HeaderResetAfter, "1.5")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	l := New()
	client := &http.Client{Transport: NewRoundTripper(nil, l)}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	client.CloseIdleConnections()

	b, ok := l.Bucket("abcd")
	require.True(t, ok)
	assert.Equal(t, 0, *b.Remaining)
	assert.Equal(t, 1500*time.Millisecond, *b.ResetAfter)
}

func TestObserveGlobal429(t *testing.T) {
	l := New()
	h := http.Header{}
	h.Set(HeaderGlobal, "true")
	h.Set(HeaderRetryAfter, "2")
	l.Observe(http.StatusTooManyRequests, h)

	b, ok := l.Bucket(GlobalBucket)
	require.True(t, ok)
	assert.Equal(t, 0, *b.Remaining)
	assert.Equal(t, 2*time.Second, *b.ResetAfter)
}

func TestObserveWithoutBucketIgnored(t *testing.T) {
	l := New()
	l.Observe(http.StatusOK, http.Header{})
	count := 0
	l.buckets.Range(func(string, Bucket) bool { count++; return true })
	assert.Zero(t, count)
}
