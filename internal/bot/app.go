// Package bot wires the riddle game into the Telegram runtime: it selects
// the riddle source, builds the command surface and exposes RunOptions for
// the bot loop.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/umutdv/riddlebot/core/config"
	coredb "github.com/umutdv/riddlebot/core/database"
	"github.com/umutdv/riddlebot/core/logger"
	tg "github.com/umutdv/riddlebot/core/telegram"
	"github.com/umutdv/riddlebot/core/telegram/commands"
	"github.com/umutdv/riddlebot/core/telegram/middleware"
	"github.com/umutdv/riddlebot/core/telegram/router"
	"github.com/umutdv/riddlebot/internal/riddle"
	"github.com/umutdv/riddlebot/internal/source"
	"github.com/umutdv/riddlebot/internal/wallet"
)

// App holds the composed application: game manager, riddle source and the
// optional database handle behind it.
type App struct {
	cfg  *coreconfig.Config
	db   *sqlx.DB
	game *riddle.Manager
}

// New builds the application from configuration. For the postgres source it
// connects, migrates and seeds the riddle database.
func New(ctx context.Context, cfg *coreconfig.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config")
	}

	var (
		src riddle.Source
		db  *sqlx.DB
	)
	switch cfg.Game.Source {
	case coreconfig.SourcePostgres:
		if err := coredb.RunMigrations(cfg.Database); err != nil {
			return nil, fmt.Errorf("bot: migrations: %w", err)
		}
		conn, err := coredb.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("bot: database: %w", err)
		}
		pg := source.NewPostgres(conn)
		if n, err := pg.SeedDefaults(ctx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("bot: seed riddles: %w", err)
		} else if n > 0 {
			logger.L.Info("riddle pool seeded",
				slog.String("event", "startup.seed"),
				slog.Int("count", n),
			)
		}
		db = conn
		src = pg
	case coreconfig.SourceHTTP:
		src = source.NewHTTP(cfg.Backend.BaseURL, cfg.Backend.RiddlePath, nil)
	default:
		src = source.NewStatic(nil, time.Now().UnixNano())
	}

	registrar := wallet.NewClient(cfg.Backend.BaseURL, cfg.Backend.WalletPath, nil)
	game := riddle.NewManager(src, registrar, riddle.Options{
		Authorized:          cfg.Game.AuthorizedSet(),
		CollaboratorTimeout: time.Duration(cfg.Game.CollaboratorTimeoutSeconds) * time.Second,
	})

	return &App{cfg: cfg, db: db, game: game}, nil
}

// Game exposes the riddle manager, mainly for tests and lifecycle hooks.
func (a *App) Game() *riddle.Manager {
	return a.game
}

// Close releases resources held by the app.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// BuildRunOptions assembles the registry, routes and middleware chain for
// RunTelegram.
func (a *App) BuildRunOptions() tg.RunOptions {
	h := NewHandlers(a.game, a.cfg)

	reg := tg.NewRegistry()
	reg.RegisterCommand("ge", commands.Command{
		Handler:        h.Generate,
		Description:    "Start a new riddle",
		AuthorizedOnly: true,
		Aliases:        []string{"generate"},
	})
	reg.RegisterCommand("ri", commands.Command{
		Handler:     h.Show,
		Description: "Show the active riddle",
		Aliases:     []string{"riddle"},
	})
	reg.RegisterCommand("an", commands.Command{
		Handler:     h.Answer,
		Description: "Submit an answer",
	})
	reg.RegisterCommand("wal", commands.Command{
		Handler:     h.Wallet,
		Description: "Register your wallet",
	})
	reg.SetTextFallback(h.AutoReply)

	access := middleware.AccessOptions{
		Authorized: a.cfg.Game.AuthorizedSet(),
		OnReject:   h.Unauthorized,
	}
	routes := router.Routes(reg, router.Options{
		Prefix:         a.cfg.Game.Prefix,
		Access:         access,
		UnknownCommand: h.Unknown,
	})

	return tg.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(a.cfg, h.RateLimited),
		Routes:      routes,
		OnStop: func(ctx context.Context, rt tg.Runtime) error {
			return a.Close()
		},
	}
}
