package validation

import (
	"strings"
	"testing"

	"chat-sim/errors"

	"github.com/stretchr/testify/require"
)

func TestUsername(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected error
	}{
		{name: "Empty", input: "", expected: errors.ErrUsernameEmpty},
		{name: "Too short", input: "ab", expected: errors.ErrUsernameTooShort},
		{name: "Minimum length", input: "abc", expected: nil},
		{name: "Regular", input: "Karan", expected: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, Username(tt.input), tt.expected)
		})
	}
}

func TestMessage_RepeatedCharacters(t *testing.T) {
	req := require.New(t)

	// 12 repeats is spam
	req.ErrorIs(Message("hey "+strings.Repeat("a", 12)), errors.ErrMessageSpam)
	// 11 repeats crosses the limit too
	req.ErrorIs(Message(strings.Repeat("a", 11)), errors.ErrMessageSpam)
	// 9 repeats passes
	req.NoError(Message(strings.Repeat("a", 9)))
	// 10 repeats is still acceptable
	req.NoError(Message(strings.Repeat("a", 10)))
}

func TestMessage_LengthBoundary(t *testing.T) {
	req := require.New(t)

	req.ErrorIs(Message(""), errors.ErrMessageEmpty)
	// Whitespace-only counts as empty
	req.ErrorIs(Message("   "), errors.ErrMessageEmpty)
	req.ErrorIs(Message(" \t\n "), errors.ErrMessageEmpty)
	// Alternating runes avoid tripping the spam check
	req.NoError(Message(strings.Repeat("ab", 250)))
	req.ErrorIs(Message(strings.Repeat("ab", 250)+"c"), errors.ErrMessageTooLong)
}

func TestRoomName(t *testing.T) {
	req := require.New(t)

	req.ErrorIs(RoomName(""), errors.ErrRoomNameEmpty)
	req.ErrorIs(RoomName("dev:ops"), errors.ErrRoomNameInvalid)
	req.NoError(RoomName("General"))
}
