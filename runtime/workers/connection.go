package workers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"chat-sim/domain"
	"chat-sim/domain/event"
	"chat-sim/errors"
)

// ConnectionConfig holds the timing knobs of the simulated connection.
type ConnectionConfig struct {
	StartupDelay   time.Duration
	LivenessPeriod time.Duration
	RetryPeriod    time.Duration
	Latency        time.Duration
	MaxAttempts    int
}

// ConnectionWorker drives the simulated connection state machine.
//
// It starts Connecting, reaches Connected after the startup delay, then
// watches for drops on a liveness period. A drop triggers a bounded retry
// cycle: each cycle waits the retry period, enters Reconnecting, and after
// the simulated latency asks the injected probe whether the attempt
// succeeded. Exhausting MaxAttempts is terminal: the worker emits Failed
// and returns nil so the supervisor never restarts it.
type ConnectionWorker struct {
	log   *slog.Logger
	clock clock.Clock
	cfg   ConnectionConfig
	probe func() bool
	emit  func(event.DomainEvent)
	drop  chan struct{}

	mu    sync.Mutex
	state domain.ConnectionState
}

func NewConnectionWorker(log *slog.Logger,
	clk clock.Clock,
	cfg ConnectionConfig,
	probe func() bool,
	emit func(event.DomainEvent)) *ConnectionWorker {
	return &ConnectionWorker{
		log:   log,
		clock: clk,
		cfg:   cfg,
		probe: probe,
		emit:  emit,
		drop:  make(chan struct{}, 1),
		state: domain.Disconnected,
	}
}

// Drop simulates a connection loss. Safe to call from any goroutine; a drop
// signaled while one is already pending is coalesced.
func (w *ConnectionWorker) Drop() {
	select {
	case w.drop <- struct{}{}:
	default:
	}
}

func (w *ConnectionWorker) State() domain.ConnectionState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *ConnectionWorker) Run(ctx context.Context) error {
	w.transition(domain.Connecting, 0)
	if !w.wait(ctx, w.cfg.StartupDelay) {
		return nil
	}
	w.transition(domain.Connected, 0)

	ticker := w.clock.Ticker(w.cfg.LivenessPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.drop:
			w.transition(domain.Disconnected, 0)
		case <-ticker.C:
			if w.State() != domain.Disconnected {
				continue
			}
			if !w.reconnect(ctx) {
				// Terminal Failed (or canceled context): stop for good.
				return nil
			}
		}
	}
}

// reconnect runs the bounded retry cycle. Returns true when the connection
// recovered, false when the policy is exhausted or the context ended.
func (w *ConnectionWorker) reconnect(ctx context.Context) bool {
	for attempt := 1; attempt <= w.cfg.MaxAttempts; attempt++ {
		if !w.wait(ctx, w.cfg.RetryPeriod) {
			return false
		}
		w.transition(domain.Reconnecting, attempt)
		if !w.wait(ctx, w.cfg.Latency) {
			return false
		}
		if w.probe() {
			w.transition(domain.Connected, 0)
			return true
		}
	}
	w.log.Error(errors.ErrReconnectExhausted.Error(), "attempts", w.cfg.MaxAttempts)
	w.transition(domain.Failed, w.cfg.MaxAttempts)
	return false
}

func (w *ConnectionWorker) transition(state domain.ConnectionState, attempt int) {
	w.mu.Lock()
	w.state = state
	w.mu.Unlock()

	w.log.Info("Connection state changed", "state", state.String(), "attempt", attempt)
	w.emit(event.ConnectionStateChanged{
		State:   state.String(),
		Attempt: attempt,
		At:      w.clock.Now().UTC(),
	})
}

func (w *ConnectionWorker) wait(ctx context.Context, d time.Duration) bool {
	timer := w.clock.Timer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
