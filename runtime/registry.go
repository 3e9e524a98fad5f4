package runtime

import (
	"sort"
	"sync"

	"chat-sim/contract"
)

type Set map[string]struct{}

// Registry tracks participant connections (sinks) and their room membership
// for event routing.
type Registry struct {
	mu          sync.RWMutex
	Sessions    map[string]contract.EventSink // map participant -> Sink
	RoomMembers map[string]Set                // map room -> participants
}

func NewRegistry() *Registry {
	return &Registry{
		Sessions:    make(map[string]contract.EventSink),
		RoomMembers: make(map[string]Set),
	}
}

// GetSinksForRoom retrieves all active communication channels for a specific room.
// It performs a two-step lookup:
// 1. Identifies participant IDs associated with the room via RoomMembers.
// 2. Resolves those IDs into actual EventSinks using the Sessions map.
//
// This decoupled approach ensures that even if a user moves between rooms,
// their connection (Sink) is managed in a single place.
// Returns nil if the room doesn't exist or has no members.
func (r *Registry) GetSinksForRoom(room string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.RoomMembers[room]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for participantID := range members {
		if sink, exists := r.Sessions[participantID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Subscribe registers a participant's active connection and assigns them to a
// specific room. If the room does not yet exist in the registry, it is
// initialized on the fly.
func (r *Registry) Subscribe(participantID string, room string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Sessions[participantID] = sink

	if _, ok := r.RoomMembers[room]; !ok {
		r.RoomMembers[room] = make(Set)
	}
	r.RoomMembers[room][participantID] = struct{}{}
}

// ActiveRoom returns a room currently holding participants, the first in
// name order, or empty when nobody is subscribed anywhere. The presence
// simulator uses it to aim its ambient activity at a watched room.
func (r *Registry) ActiveRoom() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]string, 0, len(r.RoomMembers))
	for room, members := range r.RoomMembers {
		if len(members) > 0 {
			rooms = append(rooms, room)
		}
	}
	if len(rooms) == 0 {
		return ""
	}
	sort.Strings(rooms)
	return rooms[0]
}

// Unsubscribe removes a participant from the registry and their current room.
// It cleans up the session and ensures no empty sets are left in the room map
// to prevent memory leaks over time.
func (r *Registry) Unsubscribe(participantID string, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.Sessions, participantID)

	if members, ok := r.RoomMembers[room]; ok {
		delete(members, participantID)

		// If no one is left in the room, remove the room entry entirely
		if len(members) == 0 {
			delete(r.RoomMembers, room)
		}
	}
}
