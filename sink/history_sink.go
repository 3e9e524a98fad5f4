// Package sink contains the permanent event consumers fed by the fanout
// worker: history storage and the full-text index.
package sink

import (
	"context"
	"log/slog"

	"chat-sim/domain/event"
	"chat-sim/repositories"
)

// HistorySink stores every delivered message in the history repository.
type HistorySink struct {
	repository repositories.IHistoryRepository
	log        *slog.Logger
}

func NewHistorySink(repository repositories.IHistoryRepository, log *slog.Logger) HistorySink {
	return HistorySink{repository: repository, log: log}
}

func (s HistorySink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessagePosted:
		return s.repository.StoreMessage(toHistoryMessage(evt))
	default:
		return nil
	}
}

func toHistoryMessage(evt event.MessagePosted) repositories.HistoryMessage {
	return repositories.HistoryMessage{
		ID:      evt.ID,
		Seq:     evt.Seq,
		Room:    evt.Room,
		Author:  evt.Author,
		Content: evt.Content,
		At:      evt.At,
	}
}
