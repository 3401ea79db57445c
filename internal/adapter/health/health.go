// Package health probes the service's dependencies and publishes the result
// over HTTP and the gRPC health protocol.
package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const probeTimeout = 2 * time.Second

// Probe reports whether one dependency is usable.
type Probe func(ctx context.Context) error

// Report is the outcome of one round of probes.
type Report struct {
	Healthy    bool              `json:"healthy"`
	Components map[string]string `json:"components"`
}

// Checker runs the registered probes.
type Checker struct {
	mu     sync.RWMutex
	probes map[string]Probe
	log    *zap.Logger
}

func NewChecker(log *zap.Logger) *Checker {
	return &Checker{probes: make(map[string]Probe), log: log}
}

// Register adds a probe under name, replacing any previous one.
func (c *Checker) Register(name string, p Probe) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probes[name] = p
}

// Check runs every probe concurrently.
func (c *Checker) Check(ctx context.Context) Report {
	c.mu.RLock()
	names := make([]string, 0, len(c.probes))
	for name := range c.probes {
		names = append(names, name)
	}
	c.mu.RUnlock()
	sort.Strings(names)

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	results := make([]error, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		c.mu.RLock()
		p := c.probes[name]
		c.mu.RUnlock()

		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = p(ctx)
		}()
	}
	wg.Wait()

	r := Report{Healthy: true, Components: make(map[string]string, len(names))}
	for i, name := range names {
		if results[i] != nil {
			r.Healthy = false
			r.Components[name] = results[i].Error()
			c.log.Warn("health probe failed", zap.String("component", name), zap.Error(results[i]))
			continue
		}
		r.Components[name] = "ok"
	}
	return r
}

// Publish keeps the gRPC health server's overall status in line with the
// probes until ctx is done.
func (c *Checker) Publish(ctx context.Context, srv *grpchealth.Server, every time.Duration) {
	update := func() {
		status := healthpb.HealthCheckResponse_SERVING
		if !c.Check(ctx).Healthy {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		srv.SetServingStatus("", status)
	}

	update()
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			srv.Shutdown()
			return
		case <-t.C:
			update()
		}
	}
}
