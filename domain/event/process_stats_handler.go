package event

import (
	"fmt"
	"log/slog"

	"chat-sim/errors"
)

// ProcessStatsHandler logs the periodic self-health samples.
type ProcessStatsHandler struct {
	log     *slog.Logger
	counter *Counter
}

func NewProcessStatsHandler(log *slog.Logger, counter *Counter) *ProcessStatsHandler {
	return &ProcessStatsHandler{log: log, counter: counter}
}

func (h *ProcessStatsHandler) Handle(event Event) {
	switch event.Type {
	case ProcessStatsType:
		payload, ok := event.Payload.(ProcessStats)
		if !ok {
			h.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		h.counter.Increment(ProcessStatsType)
		h.log.Debug(fmt.Sprintf("Process %d [%s] cpu=%.2f%% ram=%d", payload.PID, payload.Status, payload.Cpu, payload.Ram))
	}
}
