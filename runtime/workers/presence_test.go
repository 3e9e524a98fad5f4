package workers

import (
	"log/slog"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"chat-sim/domain"
	"chat-sim/runtime"
)

type scriptedRand struct {
	floats []float64
	ints   []int
}

func (s *scriptedRand) Float64() float64 {
	next := s.floats[0]
	s.floats = s.floats[1:]
	return next
}

func (s *scriptedRand) IntN(int) int {
	next := s.ints[0]
	s.ints = s.ints[1:]
	return next
}

func TestPresenceWorker_TogglesPoolUser(t *testing.T) {
	req := require.New(t)
	engine := runtime.NewEngine(slog.Default(), 64)
	engine.RegisterRoom(domain.NewRoom("general"))

	// First tick adds Karan, second tick removes them
	rand := &scriptedRand{floats: []float64{0.9, 0.9}, ints: []int{0, 0}}
	worker := NewPresenceWorker(slog.Default(), clock.NewMock(), rand, engine,
		func() string { return "general" }, 30*time.Second)

	worker.tick()

	room, ok := engine.Room("general")
	req.True(ok)
	req.True(room.HasUser("Karan"))
	messages := room.Messages()
	req.Len(messages, 1)
	req.Equal(domain.SystemAuthor, messages[0].Author)
	req.Equal("Karan joined the room", messages[0].Content)

	worker.tick()

	req.False(room.HasUser("Karan"))
	messages = room.Messages()
	req.Len(messages, 2)
	req.Equal("Karan left the room", messages[1].Content)
}

func TestPresenceWorker_BelowThresholdDoesNothing(t *testing.T) {
	req := require.New(t)
	engine := runtime.NewEngine(slog.Default(), 64)
	engine.RegisterRoom(domain.NewRoom("general"))

	rand := &scriptedRand{floats: []float64{0.5}}
	worker := NewPresenceWorker(slog.Default(), clock.NewMock(), rand, engine,
		func() string { return "general" }, 30*time.Second)

	worker.tick()

	room, _ := engine.Room("general")
	req.Equal(0, room.UserCount())
	req.Empty(room.Messages())
}

func TestPresenceWorker_NoActiveRoom(t *testing.T) {
	req := require.New(t)
	engine := runtime.NewEngine(slog.Default(), 64)

	rand := &scriptedRand{}
	worker := NewPresenceWorker(slog.Default(), clock.NewMock(), rand, engine,
		func() string { return "" }, 30*time.Second)

	// No draw is consumed when no room is active
	worker.tick()
	req.Empty(rand.floats)
}
