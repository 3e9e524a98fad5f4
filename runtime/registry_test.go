package runtime

import (
	"context"
	"testing"

	"chat-sim/domain/event"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Sink struct{}

func (s Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	return nil
}

func TestRegistry_Subscribe_One_Room_One_Participant(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	participantID := uuid.NewString()
	sink := Sink{}

	// Given no user is connected
	// And no room exists
	req.Empty(registry.Sessions)
	req.Empty(registry.RoomMembers)

	// When a participant subscribes a room
	registry.Subscribe(participantID, "General", sink)

	// Then
	req.Len(registry.Sessions, 1)
	req.Equal(sink, registry.Sessions[participantID])

	req.Len(registry.RoomMembers, 1)
	req.Contains(registry.RoomMembers["General"], participantID)

	req.Len(registry.GetSinksForRoom("General"), 1)
	req.Contains(registry.GetSinksForRoom("General"), sink)
}

func TestRegistry_Unsubscribe_CleansEmptyRooms(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	participantID := uuid.NewString()

	registry.Subscribe(participantID, "General", Sink{})
	registry.Unsubscribe(participantID, "General")

	req.Empty(registry.Sessions)
	req.Empty(registry.RoomMembers)
	req.Nil(registry.GetSinksForRoom("General"))
}

func TestRegistry_GetSinksForRoom_UnknownRoom(t *testing.T) {
	require.Nil(t, NewRegistry().GetSinksForRoom("Ghost"))
}

func TestRegistry_ActiveRoom(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	req.Empty(registry.ActiveRoom())

	registry.Subscribe("bob", "Technology", Sink{})
	registry.Subscribe("alice", "General", Sink{})
	req.Equal("General", registry.ActiveRoom())

	registry.Unsubscribe("alice", "General")
	req.Equal("Technology", registry.ActiveRoom())
}
