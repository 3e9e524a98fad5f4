package sink

import (
	"context"
	"log/slog"

	"chat-sim/domain"
	"chat-sim/domain/event"
	"chat-sim/search"
)

// IndexSink feeds delivered messages into the full-text archive.
type IndexSink struct {
	archive *search.Archive
	log     *slog.Logger
}

func NewIndexSink(archive *search.Archive, log *slog.Logger) IndexSink {
	return IndexSink{archive: archive, log: log}
}

func (s IndexSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessagePosted:
		return s.archive.Index(domain.Message{
			ID:        evt.ID,
			Seq:       evt.Seq,
			Room:      evt.Room,
			Author:    evt.Author,
			Content:   evt.Content,
			CreatedAt: evt.At,
		})
	default:
		return nil
	}
}
