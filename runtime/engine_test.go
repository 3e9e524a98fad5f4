package runtime

import (
	"log/slog"
	"testing"

	"chat-sim/domain"
	"chat-sim/domain/event"
	"chat-sim/errors"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return NewEngine(logs.GetLoggerFromLevel(slog.LevelError), 64)
}

func TestEngine_CreateRoom(t *testing.T) {
	req := require.New(t)
	engine := newTestEngine()

	room, err := engine.CreateRoom("General")
	req.NoError(err)
	req.NotNil(room)

	_, err = engine.CreateRoom("General")
	req.ErrorIs(err, errors.ErrRoomExists)

	// Creation emits a directory event
	evt := <-engine.Events()
	created, ok := evt.(event.RoomCreated)
	req.True(ok)
	req.Equal("General", created.Room)
}

func TestEngine_Dispatch_FlushesOutboxInOrder(t *testing.T) {
	req := require.New(t)
	engine := newTestEngine()
	engine.RegisterRoom(domain.NewRoom("General"))

	err := engine.Dispatch("General", func(r *domain.Room) {
		r.AddUser("Alice")
		r.PostSystem("Alice joined the room")
	})
	req.NoError(err)

	evt1 := <-engine.Events()
	evt2 := <-engine.Events()
	_, isJoin := evt1.(event.UserJoined)
	posted, isPost := evt2.(event.MessagePosted)
	req.True(isJoin)
	req.True(isPost)
	req.Equal(domain.SystemAuthor, posted.Author)
}

func TestEngine_Dispatch_UnknownRoom(t *testing.T) {
	engine := newTestEngine()
	err := engine.Dispatch("Ghost", func(r *domain.Room) {})
	require.ErrorIs(t, err, errors.ErrRoomNotFound)
}

func TestEngine_ListRooms(t *testing.T) {
	req := require.New(t)
	engine := newTestEngine()
	engine.RegisterRoom(domain.NewRoom("Random").WithUsers("User1", "User2"))
	engine.RegisterRoom(domain.NewRoom("General").WithUsers("Karan"))

	rooms := engine.ListRooms()
	req.Len(rooms, 2)
	// Sorted by name
	req.Equal("General", rooms[0].Name)
	req.Equal(1, rooms[0].UserCount)
	req.Equal("Random", rooms[1].Name)
	req.Equal(2, rooms[1].UserCount)
}
