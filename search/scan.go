// Package search answers queries over room history. Scan is the in-room
// search used by the display layer; Archive offers cross-room full-text
// lookups over everything the engine has delivered.
package search

import (
	"strings"

	"chat-sim/domain"
)

// Scan filters a room snapshot with a case-insensitive substring match
// against the rendered content or the author name. An empty or
// whitespace-only query yields no results; the caller falls back to the
// full history. A linear scan is sufficient at this scale; ties keep the
// original append order.
func Scan(messages []domain.Message, query string) []domain.Message {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var results []domain.Message
	for _, m := range messages {
		if strings.Contains(strings.ToLower(m.Content), query) ||
			strings.Contains(strings.ToLower(m.Author), query) {
			results = append(results, m)
		}
	}
	return results
}
