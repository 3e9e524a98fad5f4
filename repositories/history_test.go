package repositories

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, limit *int) HistoryRepository {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewHistoryRepository(db, logs.GetLoggerFromLevel(slog.LevelError), limit)
}

func storedMessage(room string, seq int64, content string) HistoryMessage {
	return HistoryMessage{
		ID:      uuid.New(),
		Seq:     seq,
		Room:    room,
		Author:  "Alice",
		Content: content,
		At:      time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestHistoryRepository_ExportPreservesAppendOrder(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository(t, nil)

	for i := 1; i <= 5; i++ {
		req.NoError(repo.StoreMessage(storedMessage("General", int64(i), fmt.Sprintf("message %d", i))))
	}
	// Another room must not leak into the export
	req.NoError(repo.StoreMessage(storedMessage("Random", 1, "elsewhere")))

	messages, err := repo.ExportMessages("General")
	req.NoError(err)
	req.Len(messages, 5)
	for i, m := range messages {
		req.Equal(int64(i+1), m.Seq)
		req.Equal("General", m.Room)
	}
}

func TestHistoryRepository_GetMessages_PagesNewestFirst(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository(t, lo.ToPtr(2))

	for i := 1; i <= 5; i++ {
		req.NoError(repo.StoreMessage(storedMessage("General", int64(i), fmt.Sprintf("message %d", i))))
	}

	// First page: the two newest
	page1, cursor, err := repo.GetMessages("General", nil)
	req.NoError(err)
	req.Len(page1, 2)
	req.Equal(int64(5), page1[0].Seq)
	req.Equal(int64(4), page1[1].Seq)
	req.NotNil(cursor)

	// Second page resumes after the cursor
	page2, cursor, err := repo.GetMessages("General", cursor)
	req.NoError(err)
	req.Len(page2, 2)
	req.Equal(int64(3), page2[0].Seq)
	req.Equal(int64(2), page2[1].Seq)
	req.NotNil(cursor)

	// Third page holds the remainder
	page3, cursor, err := repo.GetMessages("General", cursor)
	req.NoError(err)
	req.Len(page3, 1)
	req.Equal(int64(1), page3[0].Seq)
	req.NotNil(cursor)

	// Past the oldest message the cursor signals exhaustion
	page4, cursor, err := repo.GetMessages("General", cursor)
	req.NoError(err)
	req.Empty(page4)
	req.Nil(cursor)
}

func TestHistoryRepository_EmptyRoom(t *testing.T) {
	req := require.New(t)
	repo := newTestRepository(t, nil)

	messages, err := repo.ExportMessages("Ghost")
	req.NoError(err)
	req.Empty(messages)

	page, cursor, err := repo.GetMessages("Ghost", nil)
	req.NoError(err)
	req.Empty(page)
	req.Nil(cursor)
}
