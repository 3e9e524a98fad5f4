// Package runtime handles event production and propagation.
// It orchestrates the system without containing business logic or domain rules.
package runtime

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"chat-sim/domain"
	"chat-sim/domain/event"
	"chat-sim/errors"
)

// RoomInfo is the directory entry for the room list display.
type RoomInfo struct {
	Name      string
	UserCount int
}

// Engine owns the room registry and the outbound event channel. Dispatch
// serializes a mutation against one room and flushes the room's outbox into
// the channel, so every sink observes a room's messages in strict append
// order. There is no cross-room ordering guarantee.
type Engine struct {
	mu     sync.RWMutex
	log    *slog.Logger
	rooms  map[string]*domain.Room
	events chan event.DomainEvent
}

func NewEngine(log *slog.Logger, bufferSize int) *Engine {
	return &Engine{
		log:    log,
		rooms:  make(map[string]*domain.Room),
		events: make(chan event.DomainEvent, bufferSize),
	}
}

// Events exposes the outbound channel for the fanout worker.
func (e *Engine) Events() chan event.DomainEvent {
	return e.events
}

// CreateRoom registers a new empty room. Rooms are never deleted.
func (e *Engine) CreateRoom(name string) (*domain.Room, error) {
	e.mu.Lock()
	if _, ok := e.rooms[name]; ok {
		e.mu.Unlock()
		return nil, errors.ErrRoomExists
	}
	room := domain.NewRoom(name)
	e.rooms[name] = room
	e.mu.Unlock()

	e.Emit(event.RoomCreated{Room: name, At: time.Now().UTC()})
	return room, nil
}

// RegisterRoom installs a pre-built room, used for the seeded defaults.
// Already-registered names are kept untouched.
func (e *Engine) RegisterRoom(room *domain.Room) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.rooms[room.Name]; ok {
		e.log.Info(fmt.Sprintf("Room %s already exists", room.Name))
		return
	}
	e.rooms[room.Name] = room
}

func (e *Engine) Room(name string) (*domain.Room, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	room, ok := e.rooms[name]
	return room, ok
}

// ListRooms returns the directory sorted by name.
func (e *Engine) ListRooms() []RoomInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]RoomInfo, 0, len(e.rooms))
	for _, room := range e.rooms {
		out = append(out, RoomInfo{Name: room.Name, UserCount: room.UserCount()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Dispatch runs fn against the named room and flushes the produced events.
// The room's own mutex serializes concurrent dispatchers; flushed events
// enter the channel in outbox order.
func (e *Engine) Dispatch(name string, fn func(*domain.Room)) error {
	room, ok := e.Room(name)
	if !ok {
		return errors.ErrRoomNotFound
	}

	fn(room)

	for _, evt := range room.FlushEvents() {
		e.Emit(evt)
	}
	return nil
}

// Emit pushes an event without blocking; a full channel drops the event
// with a warning, display layers are best-effort consumers.
func (e *Engine) Emit(evt event.DomainEvent) {
	select {
	case e.events <- evt:
	default:
		e.log.Warn(fmt.Sprintf("Event channel full, dropping %s", evt.EventName()))
	}
}
