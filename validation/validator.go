// Package validation holds the pure predicate checks applied to raw input
// before any state mutation. Failures map to the sentinel errors callers
// surface to the display layer.
package validation

import (
	"strings"

	"chat-sim/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// maxRepeatedRun is the longest accepted run of one repeated rune.
// Eleven or more consecutive identical runes is treated as spam.
const maxRepeatedRun = 10

type usernameInput struct {
	Name string `validate:"required,min=3"`
}

type messageInput struct {
	Content string `validate:"required,max=500"`
}

type roomNameInput struct {
	Name string `validate:"required"`
}

// Username checks shape only; uniqueness is checked by the session layer
// against the logged-in set.
func Username(name string) error {
	if err := validate.Struct(usernameInput{Name: name}); err != nil {
		switch tag(err) {
		case "required":
			return errors.ErrUsernameEmpty
		case "min":
			return errors.ErrUsernameTooShort
		default:
			return err
		}
	}
	return nil
}

func Message(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.ErrMessageEmpty
	}
	if err := validate.Struct(messageInput{Content: content}); err != nil {
		switch tag(err) {
		case "required":
			return errors.ErrMessageEmpty
		case "max":
			return errors.ErrMessageTooLong
		default:
			return err
		}
	}
	if longestRun(content) > maxRepeatedRun {
		return errors.ErrMessageSpam
	}
	return nil
}

// RoomName rejects empty names and the storage key separator.
func RoomName(name string) error {
	if err := validate.Struct(roomNameInput{Name: name}); err != nil {
		if tag(err) == "required" {
			return errors.ErrRoomNameEmpty
		}
		return err
	}
	if strings.ContainsRune(name, ':') {
		return errors.ErrRoomNameInvalid
	}
	return nil
}

// longestRun counts the longest run of consecutive identical runes.
// A rune loop because RE2 has no backreferences.
func longestRun(s string) int {
	var prev rune
	run, longest := 0, 0
	for _, r := range s {
		if r == prev {
			run++
		} else {
			prev = r
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

func tag(err error) string {
	var verrs validator.ValidationErrors
	if ok := asValidationErrors(err, &verrs); ok && len(verrs) > 0 {
		return verrs[0].Tag()
	}
	return ""
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	*target = verrs
	return true
}
