package workers

import (
	"context"
	"log/slog"
	"time"

	"chat-sim/contract"
	"chat-sim/domain/event"
)

// EventFanout broadcasts domain events to multiple in-process consumers.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// durability, or retries. Events of one room are delivered one at a time,
// in channel order, so every sink observes the room log in append order.
// EventFanout is not a message broker.
//
// Permanent sinks receive every event. Room-scoped events additionally
// reach the sinks of the room's registered participants.
type EventFanout struct {
	log           *slog.Logger
	events        chan event.DomainEvent
	telemetryChan chan event.Event
	registry      contract.IRegistry
	permanent     []contract.EventSink
	sinkTimeout   time.Duration
}

func NewEventFanout(log *slog.Logger,
	events chan event.DomainEvent,
	telemetryChan chan event.Event,
	registry contract.IRegistry,
	sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{
		log:           log,
		events:        events,
		telemetryChan: telemetryChan,
		registry:      registry,
		sinkTimeout:   sinkTimeout,
	}
}

func (w *EventFanout) Add(sinks ...contract.EventSink) *EventFanout {
	w.permanent = append(w.permanent, sinks...)
	return w
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.events:
			w.Fanout(ctx, evt)
			w.report(evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fanout")
			return nil
		}
	}
}

// Fanout delivers one event synchronously to every target sink. A slow sink
// is cut off by the sink timeout instead of stalling the whole pipeline.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	sinks := w.permanent
	if roomEvt, ok := evt.(event.RoomEvent); ok {
		sinks = append(sinks[:len(sinks):len(sinks)], w.registry.GetSinksForRoom(roomEvt.RoomName())...)
	}

	for _, sink := range sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(sinkCtx, evt); err != nil {
			w.log.Warn("Sink rejected event", "event", evt.EventName(), "error", err)
		}
		cancel()
	}
}

func (w *EventFanout) report(evt event.DomainEvent) {
	posted, ok := evt.(event.MessagePosted)
	if !ok {
		return
	}
	select {
	case w.telemetryChan <- event.Event{
		Type:      event.MessagePostedType,
		CreatedAt: time.Now().UTC(),
		Payload:   posted,
	}:
	default:
		w.log.Debug("Observability telemetry event lost")
	}
}
