package domain

import (
	"sort"
	"sync"
	"time"

	"chat-sim/domain/event"

	"github.com/google/uuid"
)

// Room is the aggregate owning a presence set and an append-only message log.
// All mutations go through its methods; the internal mutex is the single
// exclusion boundary for the log and the presence set. Mutations record
// events in an outbox which the engine flushes after each dispatch.
type Room struct {
	Name string

	mu       sync.Mutex
	users    map[string]struct{}
	messages []Message
	outbox   []event.DomainEvent
	seq      int64
}

func NewRoom(name string) *Room {
	return &Room{
		Name:  name,
		users: make(map[string]struct{}),
	}
}

// WithUsers pre-seeds presence without emitting events. Used for the
// default rooms loaded at startup.
func (r *Room) WithUsers(names ...string) *Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range names {
		r.users[n] = struct{}{}
	}
	return r
}

// PostMessage appends to the log, assigning sequence, identifier and
// timestamp when absent. The log is never reordered or mutated afterwards.
func (r *Room) PostMessage(message Message) Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	message.Seq = r.seq
	message.Room = r.Name
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	r.messages = append(r.messages, message)
	r.outbox = append(r.outbox, event.MessagePosted{
		ID:      message.ID,
		Seq:     message.Seq,
		Room:    message.Room,
		Author:  message.Author,
		Content: message.Content,
		At:      message.CreatedAt,
	})
	return message
}

// PostSystem appends a synthetic notice authored by System.
func (r *Room) PostSystem(content string) Message {
	return r.PostMessage(Message{
		Author:  SystemAuthor,
		Raw:     content,
		Content: content,
	})
}

// AddUser adds a user to the presence set. Returns false when already present.
func (r *Room) AddUser(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[name]; ok {
		return false
	}
	r.users[name] = struct{}{}
	r.outbox = append(r.outbox, event.UserJoined{Room: r.Name, User: name, At: time.Now().UTC()})
	return true
}

// RemoveUser removes a user from the presence set. Returns false when absent.
func (r *Room) RemoveUser(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[name]; !ok {
		return false
	}
	delete(r.users, name)
	r.outbox = append(r.outbox, event.UserLeft{Room: r.Name, User: name, At: time.Now().UTC()})
	return true
}

func (r *Room) HasUser(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[name]
	return ok
}

func (r *Room) UserCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// Users returns the presence set sorted for stable display.
func (r *Room) Users() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.users))
	for u := range r.users {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// Messages returns a snapshot of the log in append order.
func (r *Room) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// FlushEvents drains the outbox. The caller owns delivery ordering.
func (r *Room) FlushEvents() []event.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.outbox
	r.outbox = nil
	return out
}
