package main

import (
	"context"
	"fmt"

	"github.com/gookit/color"

	"chat-sim/domain"
	"chat-sim/domain/event"
)

// ConsoleSink is the minimal display layer of the simulation binary: it
// renders the events of the subscribed room to stdout.
type ConsoleSink struct{}

func (ConsoleSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessagePosted:
		author := color.New(color.FgCyan, color.Bold).Render(evt.Author)
		if evt.Author == domain.SystemAuthor {
			author = color.New(color.FgGray).Render(evt.Author)
		}
		fmt.Printf("[%s] %s: %s\n", evt.At.Format("15:04:05"), author, evt.Content)
	case event.UserJoined:
		fmt.Println(color.New(color.FgGreen).Render(fmt.Sprintf("-> %s joined %s", evt.User, evt.Room)))
	case event.UserLeft:
		fmt.Println(color.New(color.FgYellow).Render(fmt.Sprintf("<- %s left %s", evt.User, evt.Room)))
	case event.TypingStarted:
		fmt.Println(color.New(color.FgGray).Render("Someone is typing..."))
	case event.TypingStopped:
		// The indicator simply disappears
	case event.ConnectionStateChanged:
		render := color.New(color.FgGreen).Render
		if evt.State != domain.Connected.String() {
			render = color.New(color.FgRed).Render
		}
		fmt.Println(render(fmt.Sprintf("Connection: %s (attempt %d)", evt.State, evt.Attempt)))
	}
	return nil
}
