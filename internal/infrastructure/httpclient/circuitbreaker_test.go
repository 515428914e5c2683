package httpclient

import (
	"errors"
	"testing"
	"time"

	"disputeshield-service/internal/domain/adapter"
)

func TestCircuitBreakerOpensAtThreshold(t *testing.T) {
	cb := NewCircuitBreaker(3, 30*time.Second)

	for i := 0; i < 2; i++ {
		cb.RecordFailure()
	}
	if cb.State() != StateClosed {
		t.Fatalf("state = %s, want CLOSED below threshold", cb.State())
	}
	if err := cb.Allow(); err != nil {
		t.Fatalf("Allow() below threshold: %v", err)
	}

	cb.RecordFailure()
	if cb.State() != StateOpen {
		t.Fatalf("state = %s, want OPEN at threshold", cb.State())
	}
	if err := cb.Allow(); !errors.Is(err, adapter.ErrCircuitOpen) {
		t.Fatalf("Allow() while open = %v, want ErrCircuitOpen", err)
	}
}

func TestCircuitBreakerSuccessResetsCount(t *testing.T) {
	cb := NewCircuitBreaker(3, 30*time.Second)
	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()
	cb.RecordFailure()
	if cb.State() != StateClosed {
		t.Fatalf("state = %s, want CLOSED after interleaved success", cb.State())
	}
}

func TestCircuitBreakerHalfOpenSingleProbe(t *testing.T) {
	now := time.Now()
	cb := NewCircuitBreaker(1, 30*time.Second)
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	if cb.State() != StateOpen {
		t.Fatalf("state = %s, want OPEN", cb.State())
	}

	// within the cooldown every caller is rejected
	now = now.Add(10 * time.Second)
	if err := cb.Allow(); !errors.Is(err, adapter.ErrCircuitOpen) {
		t.Fatalf("Allow() within cooldown = %v, want ErrCircuitOpen", err)
	}

	// after the cooldown exactly one probe is admitted
	now = now.Add(25 * time.Second)
	if err := cb.Allow(); err != nil {
		t.Fatalf("probe not admitted after cooldown: %v", err)
	}
	if cb.State() != StateHalfOpen {
		t.Fatalf("state = %s, want HALF_OPEN", cb.State())
	}
	if err := cb.Allow(); !errors.Is(err, adapter.ErrCircuitOpen) {
		t.Fatalf("second caller admitted alongside in-flight probe: %v", err)
	}

	t.Run("probe success closes", func(t *testing.T) {
		cb.RecordSuccess()
		if cb.State() != StateClosed {
			t.Fatalf("state = %s, want CLOSED", cb.State())
		}
		if err := cb.Allow(); err != nil {
			t.Fatalf("Allow() after close: %v", err)
		}
	})
}

func TestCircuitBreakerFailedProbeReopens(t *testing.T) {
	now := time.Now()
	cb := NewCircuitBreaker(1, 30*time.Second)
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	now = now.Add(31 * time.Second)
	if err := cb.Allow(); err != nil {
		t.Fatalf("probe not admitted: %v", err)
	}
	cb.RecordFailure()
	if cb.State() != StateOpen {
		t.Fatalf("state = %s, want OPEN after failed probe", cb.State())
	}
	// a fresh cooldown starts from the reopen
	if err := cb.Allow(); !errors.Is(err, adapter.ErrCircuitOpen) {
		t.Fatalf("Allow() right after reopen = %v, want ErrCircuitOpen", err)
	}
}

func TestCircuitBreakerTransitionCallback(t *testing.T) {
	now := time.Now()
	cb := NewCircuitBreaker(1, time.Second)
	cb.now = func() time.Time { return now }

	var transitions []string
	cb.OnTransition(func(from, to CircuitState) {
		transitions = append(transitions, from.String()+">"+to.String())
	})

	cb.RecordFailure()
	now = now.Add(2 * time.Second)
	cb.Allow()
	cb.RecordSuccess()

	want := []string{"CLOSED>OPEN", "OPEN>HALF_OPEN", "HALF_OPEN>CLOSED"}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition %d = %s, want %s", i, transitions[i], want[i])
		}
	}
}
