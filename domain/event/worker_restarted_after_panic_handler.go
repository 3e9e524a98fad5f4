package event

import (
	"chat-sim/errors"
	"log/slog"
)

type WorkerRestartedHandler struct {
	log     *slog.Logger
	counter *Counter
}

func NewWorkerRestartedHandler(log *slog.Logger, counter *Counter) *WorkerRestartedHandler {
	return &WorkerRestartedHandler{log: log, counter: counter}
}

func (h *WorkerRestartedHandler) Handle(event Event) {
	switch event.Type {
	case RestartedAfterPanicType:
		payload, ok := event.Payload.(WorkerRestartedAfterPanic)
		if !ok {
			h.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		h.counter.Increment(RestartedAfterPanicType)
		h.log.Warn("Worker restarted after panic", "name", payload.WorkerName)
	}
}
