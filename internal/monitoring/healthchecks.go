package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_TIMER = 15 * time.Second

type checker interface {
	Healthy(ctx context.Context) bool
}

// HealthMonitor polls a dependency in the background so readiness probes
// read a cached flag instead of calling out on every request.
type HealthMonitor struct {
	name     string
	check    checker
	interval time.Duration
	healthy  atomic.Bool
}

func NewHealthMonitor(name string, check checker, interval time.Duration) *HealthMonitor {
	if interval <= 0 {
		interval = HEALTHCHECK_TIMER
	}
	m := &HealthMonitor{name: name, check: check, interval: interval}
	m.healthy.Store(true)
	return m
}

// Healthy returns the result of the most recent poll.
func (m *HealthMonitor) Healthy(context.Context) bool {
	return m.healthy.Load()
}

func (m *HealthMonitor) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()

	isHealthy := m.check.Healthy(probeCtx)
	if was := m.healthy.Swap(isHealthy); was != isHealthy {
		if isHealthy {
			slog.Info("[HealthCheck] Dependency recovered", slog.String("name", m.name))
		} else {
			slog.Warn("[HealthCheck] Dependency is unhealthy", slog.String("name", m.name))
		}
	}
}

// Run probes once immediately and then every interval until ctx is done.
func (m *HealthMonitor) Run(ctx context.Context) {
	m.probe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}
