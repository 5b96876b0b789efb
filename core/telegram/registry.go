package telegram

import (
	"context"
	"sort"
	"strings"

	"github.com/umutdv/riddlebot/core/logger"
	"github.com/umutdv/riddlebot/core/telegram/commands"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Registry holds bot commands keyed by their canonical bare name ("ge",
// "an"), without any prefix. The router strips the configured prefix before
// lookup, so the same registry serves both the "/" and "@" command styles.
type Registry struct {
	commands     map[string]commands.Command
	textFallback tele.HandlerFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]commands.Command),
	}
}

// RegisterCommand adds a new command under its bare name.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) {
	name = strings.TrimSpace(name)
	if r == nil || name == "" || cmd.Handler == nil || cmd.Description == "" {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.skip",
			slog.String("name", name),
			slog.String("reason", "invalid"),
		)
		return
	}
	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, "@") {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.skip",
			slog.String("name", name),
			slog.String("reason", "prefixed_name"),
		)
		return
	}
	if _, exists := r.commands[name]; exists {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.duplicate",
			slog.String("name", name),
		)
		return
	}
	r.commands[name] = cmd
}

// ListCommands returns a slice of tele.Command, optionally filtering out
// hidden and authorized-only commands. Entries carry the "/" prefix because
// the Telegram command menu only understands slash commands.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	var list []tele.Command
	for name, meta := range r.commands {
		if visibleOnly && (meta.Hidden || meta.AuthorizedOnly) {
			continue
		}
		list = append(list, tele.Command{Text: "/" + name, Description: meta.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// LookupCommand searches for a command by bare name or one of its aliases
// and returns the canonical key with metadata if found. Matching is
// case-insensitive.
func (r *Registry) LookupCommand(name string) (string, commands.Command, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", commands.Command{}, false
	}
	if cmd, ok := r.commands[name]; ok {
		return name, cmd, true
	}
	for key, cmd := range r.commands {
		for _, alias := range cmd.Aliases {
			if alias == name {
				return key, cmd, true
			}
		}
	}
	return "", commands.Command{}, false
}

// Commands returns all registered commands.
func (r *Registry) Commands() map[string]commands.Command {
	return r.commands
}

// SetTextFallback sets a global fallback handler for non-command text.
func (r *Registry) SetTextFallback(h tele.HandlerFunc) {
	r.textFallback = h
}

// TextFallback returns the current text fallback handler.
func (r *Registry) TextFallback() tele.HandlerFunc {
	return r.textFallback
}

// SetupCommands publishes the Telegram command menu. Bots running with the
// "@" prefix skip this since their commands are plain text to Telegram.
func SetupCommands(bot *tele.Bot, reg *Registry, prefix string) {
	if prefix != "/" {
		return
	}
	list := reg.ListCommands(true)
	if err := bot.SetCommands(list); err != nil {
		logger.TWire.LogAttrs(context.Background(), slog.LevelError, "register.commands.set_failed",
			slog.String("err", err.Error()),
		)
	}
}
