package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyServer serves /health and fails while `failing` is set.
type flakyServer struct {
	*httptest.Server
	failing atomic.Bool
	hits    atomic.Int64
}

func newFlakyServer(t *testing.T) *flakyServer {
	t.Helper()
	fs := &flakyServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.hits.Add(1)
		if fs.failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(fs.Close)
	return fs
}

func newTestRegistry(upstream *flakyServer, cooldown time.Duration) *Registry {
	r := NewRegistry()
	r.Register(ServiceConfig{
		Name:             "notifications",
		BaseURL:          upstream.URL,
		Timeout:          time.Second,
		FailureThreshold: 3,
		Cooldown:         cooldown,
	})
	return r
}

func TestCheckNowHealthyService(t *testing.T) {
	upstream := newFlakyServer(t)
	r := newTestRegistry(upstream, time.Minute)

	r.CheckNow(context.Background(), "notifications")

	require.NoError(t, r.Allow("notifications"))
	assert.True(t, r.Healthy())

	statuses := r.Snapshot()
	require.Len(t, statuses, 1)
	assert.Equal(t, "notifications", statuses[0].Name)
	assert.Equal(t, "healthy", statuses[0].Status)
	assert.False(t, statuses[0].CircuitBreakerOpen)
	assert.False(t, statuses[0].LastCheck.IsZero())
}

func TestRepeatedFailuresOpenTheCircuit(t *testing.T) {
	ctx := context.Background()
	upstream := newFlakyServer(t)
	upstream.failing.Store(true)
	r := newTestRegistry(upstream, time.Minute)

	r.CheckNow(ctx, "notifications")
	r.CheckNow(ctx, "notifications")
	assert.NoError(t, r.Allow("notifications"), "still closed below the threshold")
	assert.False(t, r.Healthy(), "but already degraded")

	r.CheckNow(ctx, "notifications")
	assert.ErrorIs(t, r.Allow("notifications"), ErrCircuitOpen)

	statuses := r.Snapshot()
	require.Len(t, statuses, 1)
	assert.Equal(t, "circuit-open", statuses[0].Status)
	assert.True(t, statuses[0].CircuitBreakerOpen)
	require.NotNil(t, statuses[0].CircuitBreakerOpenedAt)
}

func TestOpenCircuitSkipsProbes(t *testing.T) {
	ctx := context.Background()
	upstream := newFlakyServer(t)
	upstream.failing.Store(true)
	r := newTestRegistry(upstream, time.Minute)

	for i := 0; i < 3; i++ {
		r.CheckNow(ctx, "notifications")
	}
	probed := upstream.hits.Load()

	// While cooling down, checks return without touching the upstream.
	r.CheckNow(ctx, "notifications")
	r.CheckNow(ctx, "notifications")
	assert.Equal(t, probed, upstream.hits.Load())
}

func TestHalfOpenProbeClosesAfterRecovery(t *testing.T) {
	ctx := context.Background()
	upstream := newFlakyServer(t)
	upstream.failing.Store(true)
	r := newTestRegistry(upstream, 10*time.Millisecond)

	for i := 0; i < 3; i++ {
		r.CheckNow(ctx, "notifications")
	}
	assert.ErrorIs(t, r.Allow("notifications"), ErrCircuitOpen)

	upstream.failing.Store(false)
	time.Sleep(20 * time.Millisecond)

	// First check after the cooldown is the half-open trial.
	r.CheckNow(ctx, "notifications")
	assert.NoError(t, r.Allow("notifications"))
	assert.True(t, r.Healthy())
}

func TestProbeTimeoutCountsAsFailure(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer slow.Close()

	r := NewRegistry()
	r.Register(ServiceConfig{
		Name:             "media",
		BaseURL:          slow.URL,
		Timeout:          20 * time.Millisecond,
		FailureThreshold: 1,
		Cooldown:         time.Minute,
	})

	r.CheckNow(context.Background(), "media")
	assert.ErrorIs(t, r.Allow("media"), ErrCircuitOpen)
}

func TestDoFeedsBreakerAccounting(t *testing.T) {
	ctx := context.Background()
	upstream := newFlakyServer(t)
	r := newTestRegistry(upstream, time.Minute)

	boom := errors.New("boom")
	for i := 0; i < 3; i++ {
		err := r.Do(ctx, "notifications", func(context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)
	}

	// Breaker opened by call failures alone; further calls fail fast
	// without invoking fn.
	called := false
	err := r.Do(ctx, "notifications", func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestDoUnknownService(t *testing.T) {
	r := NewRegistry()
	err := r.Do(context.Background(), "ghost", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrUnknownService)
}

func TestHealthyAggregatesAllServices(t *testing.T) {
	ctx := context.Background()
	good := newFlakyServer(t)
	bad := newFlakyServer(t)
	bad.failing.Store(true)

	r := NewRegistry()
	r.Register(ServiceConfig{Name: "notifications", BaseURL: good.URL})
	r.Register(ServiceConfig{Name: "media", BaseURL: bad.URL})

	r.CheckNow(ctx, "notifications")
	r.CheckNow(ctx, "media")

	assert.False(t, r.Healthy())

	statuses := r.Snapshot()
	require.Len(t, statuses, 2)
	// Sorted by name.
	assert.Equal(t, "media", statuses[0].Name)
	assert.Equal(t, "unhealthy", statuses[0].Status)
	assert.Equal(t, "notifications", statuses[1].Name)
	assert.Equal(t, "healthy", statuses[1].Status)
}
