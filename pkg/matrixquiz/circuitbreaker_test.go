package matrixquiz

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestBreaker(threshold int, coolDown time.Duration, onChange func(from, to CircuitState)) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: threshold,
		CoolDown:         coolDown,
		OnStateChange:    onChange,
	})
	cb.now = clock.Now
	return cb, clock
}

var errBoom = errors.New("boom")

func fail() error    { return errBoom }
func succeed() error { return nil }

func TestCircuitStateString(t *testing.T) {
	tests := []struct {
		state CircuitState
		want  string
	}{
		{CircuitClosed, "closed"},
		{CircuitOpen, "open"},
		{CircuitHalfOpen, "half-open"},
		{CircuitState(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("CircuitState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestCircuitBreakerDefaults(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{})
	def := DefaultCircuitBreakerConfig()
	if cb.config.FailureThreshold != def.FailureThreshold {
		t.Errorf("FailureThreshold = %d, want %d", cb.config.FailureThreshold, def.FailureThreshold)
	}
	if cb.config.CoolDown != def.CoolDown {
		t.Errorf("CoolDown = %v, want %v", cb.config.CoolDown, def.CoolDown)
	}
	if cb.State() != CircuitClosed {
		t.Errorf("initial state = %v, want closed", cb.State())
	}
}

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb, _ := newTestBreaker(3, time.Minute, nil)

	for i := 0; i < 3; i++ {
		if err := cb.Execute(fail); !errors.Is(err, errBoom) {
			t.Fatalf("call %d: err = %v, want errBoom", i, err)
		}
	}
	if cb.State() != CircuitOpen {
		t.Fatalf("state = %v, want open", cb.State())
	}

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("err = %v, want ErrCircuitOpen", err)
	}
	if called {
		t.Error("function ran while the circuit was open")
	}

	stats := cb.Stats()
	if stats.TotalFailures != 3 || stats.TotalRejections != 1 || stats.ConsecutiveFailures != 3 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestCircuitBreakerSuccessResetsFailures(t *testing.T) {
	cb, _ := newTestBreaker(2, time.Minute, nil)

	_ = cb.Execute(fail)
	_ = cb.Execute(succeed)
	_ = cb.Execute(fail)

	if cb.State() != CircuitClosed {
		t.Errorf("state = %v, want closed", cb.State())
	}
	if got := cb.Stats().ConsecutiveFailures; got != 1 {
		t.Errorf("ConsecutiveFailures = %d, want 1", got)
	}
}

func TestCircuitBreakerHalfOpenRecovery(t *testing.T) {
	cb, clock := newTestBreaker(1, 10*time.Second, nil)

	_ = cb.Execute(fail)
	clock.Advance(10 * time.Second)
	if cb.State() != CircuitHalfOpen {
		t.Fatalf("state after cool-down = %v, want half-open", cb.State())
	}

	if err := cb.Execute(succeed); err != nil {
		t.Fatalf("trial call failed: %v", err)
	}
	if cb.State() != CircuitClosed {
		t.Errorf("state after successful trial = %v, want closed", cb.State())
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb, clock := newTestBreaker(1, 10*time.Second, nil)

	_ = cb.Execute(fail)
	clock.Advance(11 * time.Second)
	_ = cb.Execute(fail)

	if cb.State() != CircuitOpen {
		t.Errorf("state = %v, want open", cb.State())
	}
	if err := cb.Execute(succeed); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("err = %v, want ErrCircuitOpen", err)
	}
}

func TestCircuitBreakerSingleTrial(t *testing.T) {
	cb, clock := newTestBreaker(1, time.Second, nil)
	_ = cb.Execute(fail)
	clock.Advance(time.Second)

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = cb.Execute(func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	if err := cb.Execute(succeed); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("second call during trial: err = %v, want ErrCircuitOpen", err)
	}
	close(release)
}

func TestCircuitBreakerStateChanges(t *testing.T) {
	var mu sync.Mutex
	var changes []string
	cb, clock := newTestBreaker(1, time.Second, func(from, to CircuitState) {
		mu.Lock()
		defer mu.Unlock()
		changes = append(changes, from.String()+">"+to.String())
	})

	_ = cb.Execute(fail)
	clock.Advance(time.Second)
	_ = cb.Execute(succeed)
	_ = cb.Execute(fail)
	cb.Reset()

	want := []string{"closed>open", "open>half-open", "half-open>closed", "closed>open", "open>closed"}
	mu.Lock()
	defer mu.Unlock()
	if len(changes) != len(want) {
		t.Fatalf("changes = %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("change %d = %q, want %q", i, changes[i], want[i])
		}
	}
}
