// Package event defines the events emitted by the chat engine.
// Display layers subscribe to these instead of reaching into engine state.
package event

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is implemented by everything flowing through the event channel.
type DomainEvent interface {
	EventName() string
}

// RoomEvent is a DomainEvent scoped to a single room. The fanout worker
// routes these to the sinks of the room's participants in addition to the
// permanent sinks.
type RoomEvent interface {
	DomainEvent
	RoomName() string
}

type MessagePosted struct {
	ID      uuid.UUID
	Seq     int64
	Room    string
	Author  string
	Content string
	At      time.Time
}

func (m MessagePosted) EventName() string { return "MESSAGE_POSTED" }
func (m MessagePosted) RoomName() string  { return m.Room }

type UserJoined struct {
	Room string
	User string
	At   time.Time
}

func (u UserJoined) EventName() string { return "USER_JOINED" }
func (u UserJoined) RoomName() string  { return u.Room }

type UserLeft struct {
	Room string
	User string
	At   time.Time
}

func (u UserLeft) EventName() string { return "USER_LEFT" }
func (u UserLeft) RoomName() string  { return u.Room }

type RoomCreated struct {
	Room string
	At   time.Time
}

func (r RoomCreated) EventName() string { return "ROOM_CREATED" }
func (r RoomCreated) RoomName() string  { return r.Room }

// TypingStarted is a transient display hint, never part of the room log.
type TypingStarted struct {
	Room string
}

func (t TypingStarted) EventName() string { return "TYPING_STARTED" }
func (t TypingStarted) RoomName() string  { return t.Room }

type TypingStopped struct {
	Room string
}

func (t TypingStopped) EventName() string { return "TYPING_STOPPED" }
func (t TypingStopped) RoomName() string  { return t.Room }

// ConnectionStateChanged is engine-scoped: it reaches permanent sinks only.
type ConnectionStateChanged struct {
	State   string
	Attempt int
	At      time.Time
}

func (c ConnectionStateChanged) EventName() string { return "CONNECTION_STATE_CHANGED" }
