package event

import "time"

type Type string

const (
	DomainType              Type = "DOMAIN"
	MessagePostedType       Type = "MESSAGE_POSTED"
	ChannelCapacityType     Type = "CHANNEL_CAPACITY"
	ProcessStatsType        Type = "PROCESS_STATS"
	RestartedAfterPanicType Type = "WORKER_RESTARTED_AFTER_PANIC"
)

// Event is the telemetry envelope. Unlike DomainEvent it carries no routing
// information, only a typed payload for the handler chain.
type Event struct {
	Type      Type
	CreatedAt time.Time
	Payload   any
}

type WorkerRestartedAfterPanic struct {
	WorkerName string
}

type ChannelCapacity struct {
	ChannelName string
	Capacity    int
	Length      int
}

type ProcessStats struct {
	PID    int64
	Status string
	Cpu    float64
	Ram    uint64
}
