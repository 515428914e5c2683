package usecase

import (
	"context"
	"sync"
	"time"

	"disputeshield-service/internal/domain/adapter"
	"disputeshield-service/pkg/logger"
	"disputeshield-service/pkg/metrics"
)

// HealthChecker is the probe surface shared by PMS and dispute-portal
// adapters.
type HealthChecker interface {
	HealthCheck(ctx context.Context) *adapter.HealthStatus
}

// HealthMonitor periodically probes tracked vendor integrations and
// caches the last result per integration, so the health endpoint can
// answer without issuing vendor calls on every request.
type HealthMonitor struct {
	logger   logger.Logger
	metrics  *metrics.Metrics
	interval time.Duration

	mu       sync.RWMutex
	checkers map[string]HealthChecker
	statuses map[string]*adapter.HealthStatus
}

// NewHealthMonitor creates a monitor that polls at the given interval.
func NewHealthMonitor(log logger.Logger, m *metrics.Metrics, interval time.Duration) *HealthMonitor {
	return &HealthMonitor{
		logger:   log,
		metrics:  m,
		interval: interval,
		checkers: make(map[string]HealthChecker),
		statuses: make(map[string]*adapter.HealthStatus),
	}
}

// Track adds an integration to the polling set. Its status shows as
// unhealthy until the first poll completes.
func (h *HealthMonitor) Track(name string, checker HealthChecker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
	h.statuses[name] = &adapter.HealthStatus{Healthy: false, Details: "not yet polled"}
}

// Run polls all tracked integrations until ctx is cancelled. It polls
// once immediately so the cache is warm before the first tick.
func (h *HealthMonitor) Run(ctx context.Context) {
	h.pollAll(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.pollAll(ctx)
		}
	}
}

func (h *HealthMonitor) pollAll(ctx context.Context) {
	h.mu.RLock()
	checkers := make(map[string]HealthChecker, len(h.checkers))
	for name, c := range h.checkers {
		checkers[name] = c
	}
	h.mu.RUnlock()

	for name, checker := range checkers {
		status := checker.HealthCheck(ctx)

		h.mu.Lock()
		h.statuses[name] = status
		h.mu.Unlock()

		if h.metrics != nil {
			v := 0.0
			if status.Healthy {
				v = 1
			}
			h.metrics.VendorHealth.WithLabelValues(name).Set(v)
		}
		if !status.Healthy {
			h.logger.Warn("Integration unhealthy", "integration", name, "details", status.Details)
		}
	}
}

// Snapshot returns the last known status per tracked integration.
func (h *HealthMonitor) Snapshot() map[string]adapter.HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make(map[string]adapter.HealthStatus, len(h.statuses))
	for name, s := range h.statuses {
		out[name] = *s
	}
	return out
}

// Healthy reports whether every tracked integration is healthy. A
// monitor with nothing tracked is healthy.
func (h *HealthMonitor) Healthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, s := range h.statuses {
		if !s.Healthy {
			return false
		}
	}
	return true
}
