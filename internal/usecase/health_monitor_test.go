package usecase

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"disputeshield-service/internal/domain/adapter"
	"disputeshield-service/pkg/logger"
)

type fakeChecker struct {
	healthy atomic.Bool
	polls   atomic.Int32
}

func (f *fakeChecker) HealthCheck(ctx context.Context) *adapter.HealthStatus {
	f.polls.Add(1)
	if f.healthy.Load() {
		return &adapter.HealthStatus{Healthy: true, LatencyMs: 12}
	}
	return &adapter.HealthStatus{Healthy: false, Details: "connection refused"}
}

func TestHealthMonitorSnapshot(t *testing.T) {
	mon := NewHealthMonitor(logger.NewNopLogger(), nil, time.Hour)

	up := &fakeChecker{}
	up.healthy.Store(true)
	down := &fakeChecker{}
	mon.Track("mews", up)
	mon.Track("visa_vrol", down)

	if mon.Healthy() {
		t.Fatal("expected unhealthy before first poll")
	}

	mon.pollAll(context.Background())

	snap := mon.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot size = %d, want 2", len(snap))
	}
	if !snap["mews"].Healthy {
		t.Error("mews should be healthy")
	}
	if snap["visa_vrol"].Healthy {
		t.Error("visa_vrol should be unhealthy")
	}
	if snap["visa_vrol"].Details != "connection refused" {
		t.Errorf("details = %q", snap["visa_vrol"].Details)
	}
	if mon.Healthy() {
		t.Error("aggregate should be unhealthy while one integration is down")
	}

	down.healthy.Store(true)
	mon.pollAll(context.Background())
	if !mon.Healthy() {
		t.Error("aggregate should recover once all integrations are healthy")
	}
}

func TestHealthMonitorEmptyIsHealthy(t *testing.T) {
	mon := NewHealthMonitor(logger.NewNopLogger(), nil, time.Hour)
	if !mon.Healthy() {
		t.Fatal("monitor with nothing tracked should be healthy")
	}
	if len(mon.Snapshot()) != 0 {
		t.Fatal("snapshot should be empty")
	}
}

func TestHealthMonitorRunPollsImmediately(t *testing.T) {
	mon := NewHealthMonitor(logger.NewNopLogger(), nil, time.Hour)
	up := &fakeChecker{}
	up.healthy.Store(true)
	mon.Track("hostaway", up)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		mon.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for up.polls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("first poll never happened")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on context cancel")
	}
}
