package event

import (
	"log/slog"
)

// MessagePostedHandler counts delivered messages for the stats endpoint.
type MessagePostedHandler struct {
	log     *slog.Logger
	counter *Counter
}

func NewMessagePostedHandler(log *slog.Logger, counter *Counter) *MessagePostedHandler {
	return &MessagePostedHandler{log: log, counter: counter}
}

func (h *MessagePostedHandler) Handle(event Event) {
	switch event.Type {
	case DomainType:
		if _, ok := event.Payload.(MessagePosted); ok {
			h.counter.Increment(MessagePostedType)
		}
	case MessagePostedType:
		h.counter.Increment(MessagePostedType)
	}
}
