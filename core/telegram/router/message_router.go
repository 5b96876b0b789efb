package router

import (
	"strings"
	"time"

	"github.com/umutdv/riddlebot/core/logger"
	tg "github.com/umutdv/riddlebot/core/telegram"
	"github.com/umutdv/riddlebot/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Options configures how registry commands are matched and exposed.
type Options struct {
	// Prefix is the configured command marker, "/" or "@".
	Prefix string
	// Access is applied to commands flagged AuthorizedOnly.
	Access middleware.AccessOptions
	// UnknownCommand handles prefixed text that matches no registered command.
	UnknownCommand tele.HandlerFunc
}

// Routes builds the full route set for the registry: explicit endpoints for
// slash commands, plus an OnText handler that resolves prefixed commands and
// dispatches everything else to the registry's text fallback. With the "@"
// prefix all commands arrive as plain text, so the OnText route carries the
// whole surface.
func Routes(reg *tg.Registry, opts Options) []tg.Route {
	if reg == nil {
		return nil
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "/"
	}

	var routes []tg.Route
	if prefix == "/" {
		routes = commandRoutes(reg, opts)
	}
	routes = append(routes, tg.Route{
		Endpoint: tele.OnText,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(textHandler(reg, prefix, opts))),
	})

	logger.TWire.Info("tg.wire",
		slog.String("event", "complete"),
		slog.String("prefix", prefix),
		slog.Int("commands", len(reg.Commands())),
	)

	return routes
}

// commandRoutes binds each command and alias as a native slash endpoint so
// Telegram's command parsing applies before the text fallback.
func commandRoutes(reg *tg.Registry, opts Options) []tg.Route {
	var routes []tg.Route
	for name, def := range reg.Commands() {
		handler := wrapCommand(name, def.Handler, def.AuthorizedOnly, opts)
		routes = append(routes, tg.Route{Endpoint: "/" + name, Handler: handler})
		for _, alias := range def.Aliases {
			routes = append(routes, tg.Route{Endpoint: "/" + alias, Handler: wrapCommand(name, def.Handler, def.AuthorizedOnly, opts)})
		}
	}
	return routes
}

func wrapCommand(name string, h tele.HandlerFunc, authorizedOnly bool, opts Options) tele.HandlerFunc {
	summary := func(c tele.Context) error {
		return handleWithSummary(c, normalizeHandlerName(name), time.Now(), "", "", func() error {
			return h(c)
		})
	}
	guarded := middleware.WithAccessCheck(opts.Access, authorizedOnly, summary)
	return middleware.RecoverMiddleware(middleware.LoggerMiddleware(guarded))
}

func textHandler(reg *tg.Registry, prefix string, opts Options) tele.HandlerFunc {
	return func(c tele.Context) error {
		start := time.Now()
		text := strings.TrimSpace(c.Text())

		if strings.HasPrefix(text, prefix) {
			word := firstWord(strings.TrimPrefix(text, prefix))
			if key, cmd, ok := reg.LookupCommand(word); ok && cmd.Handler != nil {
				h := middleware.WithAccessCheck(opts.Access, cmd.AuthorizedOnly, cmd.Handler)
				return handleWithSummary(c, normalizeHandlerName(key), start, "", "", func() error {
					return h(c)
				})
			}
			if opts.UnknownCommand != nil {
				return handleWithSummary(c, "unknown_command", start, "", "", func() error {
					return opts.UnknownCommand(c)
				})
			}
			logHandlerSummary(c, "unknown_command", start, "skip", "ok", nil)
			return nil
		}

		if fb := reg.TextFallback(); fb != nil {
			return handleWithSummary(c, "fallback", start, "", "", func() error {
				return fb(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}
}

func firstWord(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t\n"); i >= 0 {
		return s[:i]
	}
	return s
}
