package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command represents a bot command with its handler, description, and metadata.
// Names are canonical without any prefix; the router applies the configured
// command prefix when matching incoming text.
type Command struct {
	Handler        tele.HandlerFunc
	Description    string
	AuthorizedOnly bool
	Hidden         bool
	Aliases        []string
}
