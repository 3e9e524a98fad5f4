package errors

import "fmt"

var (
	ErrUsernameEmpty    = fmt.Errorf("username is required")
	ErrUsernameTooShort = fmt.Errorf("username must be at least 3 characters long")
	ErrUsernameTaken    = fmt.Errorf("username is already taken")

	ErrMessageEmpty   = fmt.Errorf("message cannot be empty")
	ErrMessageTooLong = fmt.Errorf("message too long (max 500 characters)")
	ErrMessageSpam    = fmt.Errorf("message contains too many repeated characters")

	ErrRoomNameEmpty   = fmt.Errorf("room name is required")
	ErrRoomNameInvalid = fmt.Errorf("room name contains a reserved character")
	ErrRoomExists      = fmt.Errorf("room already exists")
	ErrRoomNotFound    = fmt.Errorf("room not found")

	ErrNotLoggedIn = fmt.Errorf("no active session")
	ErrNotInRoom   = fmt.Errorf("no room selected")

	ErrReconnectExhausted = fmt.Errorf("failed to reconnect, manual restart required")

	ErrWorkerPanic    = fmt.Errorf("worker panic")
	ErrInvalidPayload = fmt.Errorf("invalid event payload")
	ErrEmptyWords     = fmt.Errorf("no words have been found")
)
