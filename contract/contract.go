//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"chat-sim/domain"
	"chat-sim/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

type IRegistry interface {
	GetSinksForRoom(room string) []EventSink
	Subscribe(participantID string, room string, sink EventSink)
	Unsubscribe(participantID string, room string)
}

// Dispatcher serializes room mutations and flushes the resulting events.
// The engine implements it; workers depend on this narrow view only.
type Dispatcher interface {
	Dispatch(room string, fn func(*domain.Room)) error
}

// Rand abstracts the randomness consumed by the simulators so tests can
// supply deterministic sequences.
type Rand interface {
	Float64() float64
	IntN(n int) int
}
