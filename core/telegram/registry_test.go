package telegram

import (
	"testing"

	"github.com/umutdv/riddlebot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func noopHandler(c tele.Context) error { return nil }

func TestLookupCommandByNameAndAlias(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("ge", commands.Command{
		Handler:        noopHandler,
		Description:    "Start a new riddle",
		AuthorizedOnly: true,
		Aliases:        []string{"generate"},
	})
	reg.RegisterCommand("an", commands.Command{
		Handler:     noopHandler,
		Description: "Submit an answer",
	})

	key, cmd, ok := reg.LookupCommand("ge")
	if !ok || key != "ge" || !cmd.AuthorizedOnly {
		t.Fatalf("lookup ge: key=%q ok=%v cmd=%+v", key, ok, cmd)
	}

	key, _, ok = reg.LookupCommand("generate")
	if !ok || key != "ge" {
		t.Fatalf("alias lookup should resolve to canonical key, got %q ok=%v", key, ok)
	}

	if key, _, ok := reg.LookupCommand("GE"); !ok || key != "ge" {
		t.Fatalf("lookup should be case-insensitive, got %q ok=%v", key, ok)
	}

	if _, _, ok := reg.LookupCommand("nope"); ok {
		t.Fatal("unknown command should not resolve")
	}
	if _, _, ok := reg.LookupCommand(""); ok {
		t.Fatal("empty name should not resolve")
	}
}

func TestListCommandsFiltersRestricted(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("ge", commands.Command{
		Handler:        noopHandler,
		Description:    "Start a new riddle",
		AuthorizedOnly: true,
	})
	reg.RegisterCommand("ri", commands.Command{
		Handler:     noopHandler,
		Description: "Show the active riddle",
	})
	reg.RegisterCommand("an", commands.Command{
		Handler:     noopHandler,
		Description: "Submit an answer",
	})

	visible := reg.ListCommands(true)
	if len(visible) != 2 {
		t.Fatalf("visible commands = %d, want 2", len(visible))
	}
	// Sorted, slash-prefixed for the Telegram menu.
	if visible[0].Text != "/an" || visible[1].Text != "/ri" {
		t.Fatalf("unexpected menu entries: %+v", visible)
	}

	all := reg.ListCommands(false)
	if len(all) != 3 {
		t.Fatalf("all commands = %d, want 3", len(all))
	}
}
