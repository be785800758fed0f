package health

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"
)

var (
	// ErrCircuitOpen is returned when a request is short-circuited
	// because the target service's breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrUnknownService is returned for services never registered.
	ErrUnknownService = errors.New("unknown service")
)

// ServiceConfig describes one downstream service to watch.
type ServiceConfig struct {
	Name             string
	BaseURL          string
	HealthPath       string
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold int
	Cooldown         time.Duration
}

func (c *ServiceConfig) applyDefaults() {
	if c.HealthPath == "" {
		c.HealthPath = "/health"
	}
	if c.Interval <= 0 {
		c.Interval = 10 * time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 2 * time.Second
	}
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 3
	}
	if c.Cooldown <= 0 {
		c.Cooldown = 30 * time.Second
	}
}

// ServiceStatus is the externally visible state of one service.
type ServiceStatus struct {
	Name                   string     `json:"name"`
	URL                    string     `json:"url"`
	Status                 string     `json:"status"`
	LastCheck              time.Time  `json:"lastCheck"`
	ResponseTimeMs         int64      `json:"responseTime"`
	ErrorCount             int        `json:"errorCount"`
	CircuitBreakerOpen     bool       `json:"circuitBreakerOpen"`
	CircuitBreakerOpenedAt *time.Time `json:"circuitBreakerOpenedAt,omitempty"`
}

type service struct {
	cfg          ServiceConfig
	breaker      breaker
	healthy      bool
	lastCheck    time.Time
	responseTime time.Duration
}

// Registry tracks the health of downstream services, one breaker and one
// polling loop per service. It is an explicit owned object: construct it
// in main, pass it to whoever issues requests.
type Registry struct {
	mu       sync.RWMutex
	services map[string]*service
	client   *http.Client
	now      func() time.Time
}

// NewRegistry creates an empty registry. Probe timeouts are enforced per
// request, so the shared client carries no global deadline.
func NewRegistry() *Registry {
	return &Registry{
		services: make(map[string]*service),
		client:   &http.Client{},
		now:      time.Now,
	}
}

// Register adds a service to the registry. Zero config fields get
// defaults. Services start closed and healthy until the first probe says
// otherwise.
func (r *Registry) Register(cfg ServiceConfig) {
	cfg.applyDefaults()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[cfg.Name] = &service{
		cfg:     cfg,
		healthy: true,
		breaker: breaker{
			threshold: cfg.FailureThreshold,
			cooldown:  cfg.Cooldown,
		},
	}
}

// Start launches one polling goroutine per registered service. Pollers
// run independently so one slow health check never delays another
// service's schedule, and they stop when ctx is cancelled.
func (r *Registry) Start(ctx context.Context) {
	r.mu.RLock()
	names := make([]string, 0, len(r.services))
	for name := range r.services {
		names = append(names, name)
	}
	r.mu.RUnlock()

	for _, name := range names {
		go r.poll(ctx, name)
	}
}

func (r *Registry) poll(ctx context.Context, name string) {
	r.mu.RLock()
	svc, ok := r.services[name]
	r.mu.RUnlock()
	if !ok {
		return
	}

	ticker := time.NewTicker(svc.cfg.Interval)
	defer ticker.Stop()

	r.CheckNow(ctx, name)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.CheckNow(ctx, name)
		}
	}
}

// CheckNow runs a single health probe for the service. While the breaker
// is open and cooling down the probe is skipped entirely; once the
// cooldown elapses the probe doubles as the half-open trial request.
func (r *Registry) CheckNow(ctx context.Context, name string) {
	r.mu.Lock()
	svc, ok := r.services[name]
	if !ok {
		r.mu.Unlock()
		return
	}
	if !svc.breaker.allow(r.now()) {
		r.mu.Unlock()
		return
	}
	cfg := svc.cfg
	r.mu.Unlock()

	// Probe outside the lock; a slow endpoint must not block Snapshot or
	// other services' bookkeeping.
	elapsed, err := r.probe(ctx, cfg)

	r.mu.Lock()
	defer r.mu.Unlock()
	svc.lastCheck = r.now()
	svc.responseTime = elapsed
	if err != nil {
		svc.healthy = false
		svc.breaker.recordFailure(r.now())
		return
	}
	svc.healthy = true
	svc.breaker.recordSuccess()
}

func (r *Registry) probe(ctx context.Context, cfg ServiceConfig) (time.Duration, error) {
	probeCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	start := r.now()
	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, cfg.BaseURL+cfg.HealthPath, nil)
	if err != nil {
		return 0, err
	}

	resp, err := r.client.Do(req)
	elapsed := r.now().Sub(start)
	if err != nil {
		// A timed-out check counts as a failure like any other.
		return elapsed, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return elapsed, fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return elapsed, nil
}

// Allow reports whether a request to the named service may proceed,
// returning ErrCircuitOpen for fail-fast short-circuiting.
func (r *Registry) Allow(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	svc, ok := r.services[name]
	if !ok {
		return ErrUnknownService
	}
	if !svc.breaker.allow(r.now()) {
		return ErrCircuitOpen
	}
	return nil
}

// Do wraps an outbound call with the service's breaker: short-circuits
// while open, and feeds the call's outcome back into the breaker's
// accounting.
func (r *Registry) Do(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := r.Allow(name); err != nil {
		return err
	}

	err := fn(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	svc, ok := r.services[name]
	if !ok {
		return err
	}
	if err != nil {
		svc.breaker.recordFailure(r.now())
		return err
	}
	svc.breaker.recordSuccess()
	return nil
}

// Snapshot returns the current status of every registered service,
// ordered by name.
func (r *Registry) Snapshot() []ServiceStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statuses := make([]ServiceStatus, 0, len(r.services))
	for _, svc := range r.services {
		status := ServiceStatus{
			Name:           svc.cfg.Name,
			URL:            svc.cfg.BaseURL,
			LastCheck:      svc.lastCheck,
			ResponseTimeMs: svc.responseTime.Milliseconds(),
			ErrorCount:     svc.breaker.errorCount,
		}

		switch {
		case svc.breaker.state == StateOpen:
			status.Status = "circuit-open"
			status.CircuitBreakerOpen = true
			openedAt := svc.breaker.openedAt
			status.CircuitBreakerOpenedAt = &openedAt
		case !svc.healthy:
			status.Status = "unhealthy"
		default:
			status.Status = "healthy"
		}

		statuses = append(statuses, status)
	}

	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses
}

// Healthy reports whether every registered service is closed and healthy.
// A single open breaker or failing service degrades the aggregate.
func (r *Registry) Healthy() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, svc := range r.services {
		if !svc.healthy || svc.breaker.state != StateClosed {
			return false
		}
	}
	return true
}
