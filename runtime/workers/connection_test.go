package workers

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"chat-sim/domain"
	"chat-sim/domain/event"
)

var testConnectionConfig = ConnectionConfig{
	StartupDelay:   2 * time.Second,
	LivenessPeriod: 10 * time.Second,
	RetryPeriod:    3 * time.Second,
	Latency:        2 * time.Second,
	MaxAttempts:    3,
}

type stateRecorder struct {
	mu     sync.Mutex
	states []string
}

func (r *stateRecorder) record(e event.DomainEvent) {
	changed, ok := e.(event.ConnectionStateChanged)
	if !ok {
		return
	}
	r.mu.Lock()
	r.states = append(r.states, changed.State)
	r.mu.Unlock()
}

func (r *stateRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.states))
	copy(out, r.states)
	return out
}

// advance moves the mock clock in one-second steps, yielding between steps
// so the worker goroutine observes every timer expiry.
func advance(mock *clock.Mock, d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += time.Second {
		mock.Add(time.Second)
		time.Sleep(time.Millisecond)
	}
}

func TestConnectionWorker_StartupReachesConnected(t *testing.T) {
	req := require.New(t)
	mock := clock.NewMock()
	recorder := &stateRecorder{}

	worker := NewConnectionWorker(slog.Default(), mock, testConnectionConfig,
		func() bool { return true }, recorder.record)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()
	time.Sleep(time.Millisecond)

	advance(mock, testConnectionConfig.StartupDelay)

	req.Eventually(func() bool { return worker.State() == domain.Connected },
		time.Second, 5*time.Millisecond)
	req.Equal([]string{"CONNECTING", "CONNECTED"}, recorder.snapshot())
}

func TestConnectionWorker_FailsAfterBoundedRetries(t *testing.T) {
	req := require.New(t)
	mock := clock.NewMock()
	recorder := &stateRecorder{}

	// Probe never succeeds
	worker := NewConnectionWorker(slog.Default(), mock, testConnectionConfig,
		func() bool { return false }, recorder.record)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = worker.Run(ctx)
		close(done)
	}()
	time.Sleep(time.Millisecond)

	advance(mock, testConnectionConfig.StartupDelay)
	req.Eventually(func() bool { return worker.State() == domain.Connected },
		time.Second, 5*time.Millisecond)

	worker.Drop()
	req.Eventually(func() bool { return worker.State() == domain.Disconnected },
		time.Second, 5*time.Millisecond)

	// Liveness tick notices the drop, then three full retry cycles elapse
	advance(mock, testConnectionConfig.LivenessPeriod)
	advance(mock, 3*(testConnectionConfig.RetryPeriod+testConnectionConfig.Latency))

	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Worker should have terminated after exhausting retries")
	}

	req.Equal(domain.Failed, worker.State())
	req.Equal([]string{
		"CONNECTING", "CONNECTED",
		"DISCONNECTED",
		"RECONNECTING", "RECONNECTING", "RECONNECTING",
		"FAILED",
	}, recorder.snapshot())
}

func TestConnectionWorker_RecoversWhenProbeSucceeds(t *testing.T) {
	req := require.New(t)
	mock := clock.NewMock()
	recorder := &stateRecorder{}

	// First probe fails, second succeeds
	probes := []bool{false, true}
	worker := NewConnectionWorker(slog.Default(), mock, testConnectionConfig,
		func() bool {
			next := probes[0]
			probes = probes[1:]
			return next
		}, recorder.record)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()
	time.Sleep(time.Millisecond)

	advance(mock, testConnectionConfig.StartupDelay)
	req.Eventually(func() bool { return worker.State() == domain.Connected },
		time.Second, 5*time.Millisecond)

	worker.Drop()
	req.Eventually(func() bool { return worker.State() == domain.Disconnected },
		time.Second, 5*time.Millisecond)

	advance(mock, testConnectionConfig.LivenessPeriod)
	advance(mock, 2*(testConnectionConfig.RetryPeriod+testConnectionConfig.Latency))

	req.Eventually(func() bool { return worker.State() == domain.Connected },
		time.Second, 5*time.Millisecond)
	req.Equal([]string{
		"CONNECTING", "CONNECTED",
		"DISCONNECTED",
		"RECONNECTING", "RECONNECTING",
		"CONNECTED",
	}, recorder.snapshot())
}
