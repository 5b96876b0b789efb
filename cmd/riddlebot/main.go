package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"log/slog"

	"github.com/umutdv/riddlebot/core/buildinfo"
	coreconfig "github.com/umutdv/riddlebot/core/config"
	"github.com/umutdv/riddlebot/core/logger"
	coretelegram "github.com/umutdv/riddlebot/core/telegram"
	"github.com/umutdv/riddlebot/internal/bot"
)

const defaultConfigPath = "config.yaml"

func main() {
	if err := run(); err != nil {
		log.Fatalf("riddlebot: %v", err)
	}
}

func run() error {
	// Optional .env for local runs; config and env vars are the real source.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = defaultConfigPath
	}

	log.Printf("loading config: %s", cfgPath)
	cfg, err := coreconfig.Load(cfgPath)
	if err != nil {
		return err
	}

	if err := logger.InitLogger(cfg); err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	logger.L.Info("starting",
		slog.String("event", "startup"),
		slog.String("version", buildinfo.Version),
		slog.String("commit", buildinfo.Commit),
		slog.String("source", cfg.Game.Source),
		slog.String("prefix", cfg.Game.Prefix),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := bot.New(ctx, cfg)
	if err != nil {
		return err
	}

	runOpts := app.BuildRunOptions()

	startedAt := time.Now()
	runOpts.OnStart = func(ctx context.Context, rt coretelegram.Runtime) error {
		logger.L.With("component", "app").Info("app ready",
			slog.String("event", "ready"),
			slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
		)
		return nil
	}

	prevStop := runOpts.OnStop
	runOpts.OnStop = func(ctx context.Context, rt coretelegram.Runtime) error {
		logger.L.With("component", "app").Info("shutting down...",
			slog.String("event", "shutdown"),
		)
		if prevStop != nil {
			return prevStop(ctx, rt)
		}
		return nil
	}

	return coretelegram.RunTelegram(ctx, runOpts)
}
