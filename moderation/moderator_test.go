package moderation

import (
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

// The dictionary uses specific words to avoid partial collisions
// (e.g., "he" inside "The").
func TestModerator_Censor(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	dictionary := []string{"badger", "snake"}
	mod, err := NewModerator(dictionary, replacementChar, log)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
		words    []string
	}{
		{
			name:     "Simple word and space preservation",
			input:    "The badger is here",
			expected: "The ****** is here",
			words:    []string{"badger"},
		},
		{
			name:     "Leet speak",
			input:    "Look at b4dg3r now",
			expected: "Look at ****** now",
			words:    []string{"badger"},
		},
		{
			name:     "Uppercase and punctuation noise",
			input:    "S-N-A-K-E alert",
			expected: "********* alert",
			words:    []string{"snake"},
		},
		{
			name:     "Nothing to censor",
			input:    "all friendly here",
			expected: "all friendly here",
			words:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, found := mod.Censor(tt.input)
			require.Equal(t, tt.expected, out)
			require.Len(t, found, len(tt.words))
		})
	}
}

func TestLoadCensoredWords(t *testing.T) {
	req := require.New(t)

	data, err := LoadCensoredWords()
	req.NoError(err)
	req.NotEmpty(data.Words)
	req.Contains(data.Languages, "en")
	req.Contains(data.Languages, "fr")
}
