package workers

import (
	"context"
	"log/slog"

	"chat-sim/domain/event"
)

// TelemetryWorker drains the telemetry channel through the handler chain.
type TelemetryWorker struct {
	log           *slog.Logger
	telemetryChan chan event.Event
	handlers      []event.Handler
}

func NewTelemetryWorker(log *slog.Logger,
	telemetryChan chan event.Event,
	handlers []event.Handler) *TelemetryWorker {
	return &TelemetryWorker{
		log:           log,
		telemetryChan: telemetryChan,
		handlers:      handlers,
	}
}

func (w TelemetryWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping telemetry drain")
			return nil
		case evt := <-w.telemetryChan:
			w.handle(evt)
		}
	}
}

func (w TelemetryWorker) handle(evt event.Event) {
	for _, h := range w.handlers {
		h.Handle(evt)
	}
}
