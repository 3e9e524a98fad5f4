package search

import (
	"context"
	"sync"

	"chat-sim/domain"

	"github.com/blugelabs/bluge"
)

// Archive is a full-text index over every delivered message, backed by an
// in-memory Bluge writer. It complements Scan: Scan answers the in-room
// substring search, Archive answers cross-room term queries.
type Archive struct {
	mu     sync.Mutex
	writer *bluge.Writer
}

type Hit struct {
	Room    string
	Author  string
	Content string
	Score   float64
}

func NewArchive() (*Archive, error) {
	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	if err != nil {
		return nil, err
	}
	return &Archive{writer: writer}, nil
}

// Index adds or replaces a message document.
func (a *Archive) Index(m domain.Message) error {
	doc := bluge.NewDocument(m.ID.String()).
		AddField(bluge.NewKeywordField("room", m.Room).StoreValue()).
		AddField(bluge.NewTextField("author", m.Author).StoreValue()).
		AddField(bluge.NewTextField("content", m.Content).StoreValue())

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.writer.Update(doc.ID(), doc)
}

// Query matches terms against content and author, best score first.
func (a *Archive) Query(ctx context.Context, terms string, limit int) ([]Hit, error) {
	a.mu.Lock()
	reader, err := a.writer.Reader()
	a.mu.Unlock()
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	query := bluge.NewBooleanQuery().
		AddShould(bluge.NewMatchQuery(terms).SetField("content")).
		AddShould(bluge.NewMatchQuery(terms).SetField("author"))

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var hits []Hit
	match, err := iterator.Next()
	for err == nil && match != nil {
		hit := Hit{Score: match.Score}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "room":
				hit.Room = string(value)
			case "author":
				hit.Author = string(value)
			case "content":
				hit.Content = string(value)
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, err
	}
	return hits, nil
}

func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.writer.Close()
}
