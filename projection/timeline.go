// Package projection builds local timelines from observed events.
// Handles ordering and per-room views for display layers.
// Does not emit events or interact with UI directly.
package projection

import (
	"context"
	"sync"

	"chat-sim/domain"
	"chat-sim/domain/event"
)

// Timeline accumulates delivered messages per room, in delivery order.
type Timeline struct {
	mu    sync.RWMutex
	rooms map[string][]domain.Message
}

func NewTimeline() *Timeline {
	return &Timeline{rooms: make(map[string][]domain.Message)}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessagePosted:
		t.mu.Lock()
		t.rooms[evt.Room] = append(t.rooms[evt.Room], fromEvent(evt))
		t.mu.Unlock()
	}
	return nil
}

// Messages returns the room view in delivery order.
func (t *Timeline) Messages(room string) []domain.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.Message, len(t.rooms[room]))
	copy(out, t.rooms[room])
	return out
}

func fromEvent(evt event.MessagePosted) domain.Message {
	return domain.Message{
		ID:        evt.ID,
		Seq:       evt.Seq,
		Room:      evt.Room,
		Author:    evt.Author,
		Content:   evt.Content,
		CreatedAt: evt.At,
	}
}
