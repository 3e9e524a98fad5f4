//go:generate go run go.uber.org/mock/mockgen -source=history.go -destination=../mocks/mock_history_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IHistoryRepository interface {
	StoreMessage(message HistoryMessage) error
	GetMessages(room string, cursor *string) ([]HistoryMessage, *string, error)
	ExportMessages(room string) ([]HistoryMessage, error)
}

// HistoryRepository keeps the per-room message history in Badger. The store
// runs in in-memory mode: history lives for the process lifetime only, the
// export document is the sole durable artifact.
type HistoryRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewHistoryRepository(db *badger.DB, log *slog.Logger, limitMessages *int) HistoryRepository {
	return HistoryRepository{db: db, log: log, limitMessages: limitMessages}
}

// OpenInMemory opens a Badger instance without any on-disk footprint.
func OpenInMemory() (*badger.DB, error) {
	return badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR))
}

type HistoryMessage struct {
	ID      uuid.UUID `json:"id"`
	Seq     int64     `json:"seq"`
	Room    string    `json:"room"`
	Author  string    `json:"author"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// StoreMessage persists a message in Badger.
// The key is formatted as "msg:{room}:{seq_padded}:{uuid}" to:
//  1. Ensure append-order sorting using 19-digit zero padding
//     (lexicographical order follows the per-room sequence).
//  2. Keep the UUID as a collision disconnector should two writers ever
//     race on the same sequence value.
func (r HistoryRepository) StoreMessage(message HistoryMessage) error {
	key := fmt.Sprintf("msg:%s:%019d:%s",
		message.Room,
		message.Seq,
		message.ID,
	)
	bytes, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// GetMessages retrieves a page of messages for a room using a reverse
// prefix scan, newest first. The returned cursor is the key remainder of the
// last message; passing it back resumes the scan after that message. A nil
// cursor means the scan is exhausted. It stops collecting once the configured
// limitMessages is reached.
func (r HistoryRepository) GetMessages(room string, cursor *string) ([]HistoryMessage, *string, error) {
	var values [][]byte
	var lastKey string

	err := r.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%s:", room)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)

		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible sequence, then walk backwards
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if r.limitMessages != nil && len(values) == *r.limitMessages {
				r.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *r.limitMessages))
				break
			}
			item := it.Item()
			// Memorize cursor part of the actual key
			lastKey = string(item.Key()[prefixLen:])
			err := item.Value(func(value []byte) error {
				values = append(values, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	messages, err := decodeAll(values)
	if err != nil {
		return nil, nil, err
	}
	if lastKey == "" {
		// Nothing read: the scan is exhausted
		return messages, nil, nil
	}
	return messages, &lastKey, nil
}

// ExportMessages returns the full room history in append order.
func (r HistoryRepository) ExportMessages(room string) ([]HistoryMessage, error) {
	var values [][]byte

	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("msg:%s:", room))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				values = append(values, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return decodeAll(values)
}

func decodeAll(values [][]byte) ([]HistoryMessage, error) {
	var messages []HistoryMessage
	for _, b := range values {
		var m HistoryMessage
		if err := json.Unmarshal(b, &m); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}
