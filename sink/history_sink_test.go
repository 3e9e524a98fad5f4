package sink

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"chat-sim/domain/event"
	"chat-sim/mocks"
	"chat-sim/repositories"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestHistorySink_StoresMessagePosted(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockIHistoryRepository(ctrl)

	evt := event.MessagePosted{
		ID:      uuid.New(),
		Seq:     7,
		Room:    "General",
		Author:  "Alice",
		Content: "hello",
		At:      time.Now().UTC(),
	}

	repo.EXPECT().
		StoreMessage(gomock.Any()).
		Do(func(m repositories.HistoryMessage) {
			req.Equal(evt.ID, m.ID)
			req.Equal(evt.Seq, m.Seq)
			req.Equal(evt.Room, m.Room)
			req.Equal(evt.Content, m.Content)
		}).
		Return(nil).
		Times(1)

	s := NewHistorySink(repo, log)
	req.NoError(s.Consume(context.Background(), evt))

	// Non-message events are ignored
	req.NoError(s.Consume(context.Background(), event.UserJoined{Room: "General", User: "Bob"}))
}
