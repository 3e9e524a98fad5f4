// Package domain contains core concepts of the chat system.
// This file defines Message events and related rules.
// Messages are immutable and validated by the domain.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// SystemAuthor is the reserved sender of synthetic room notices.
const SystemAuthor = "System"

// Message represents an immutable chat event. Content holds the rendered
// form (sanitized, censored, formatted); Raw keeps the author's input.
type Message struct {
	ID        uuid.UUID
	Seq       int64
	Room      string
	Author    string
	Raw       string
	Content   string
	Lang      string
	CreatedAt time.Time
}

// IsSystem reports whether the message is a synthetic room notice.
func (m Message) IsSystem() bool {
	return m.Author == SystemAuthor
}

// Formatting is the per-session toggle set applied to the next outgoing
// message only. It resets after each send.
type Formatting struct {
	Bold   bool
	Italic bool
}
