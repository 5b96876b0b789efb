package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	BotFile     string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
	// UpdateInlineQuery identifies inline query updates for rate limit exclusions.
	UpdateInlineQuery = "inline_query"
)

// RateLimitConfig holds settings for rate limiting.
// ExcludeUpdates accepts update types to bypass limiting:
// - "message": standard text messages
// - "inline_query": inline query updates
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

const (
	// SourcePostgres selects the database-backed riddle source.
	SourcePostgres = "postgres"
	// SourceHTTP selects the remote backend riddle source.
	SourceHTTP = "http"
	// SourceStatic selects the built-in riddle list, useful for dev runs.
	SourceStatic = "static"
)

const (
	// PrefixSlash marks commands with a leading slash.
	PrefixSlash = "/"
	// PrefixAt marks commands with a leading at-sign.
	PrefixAt = "@"
)

// GameConfig holds riddle game settings.
type GameConfig struct {
	// Prefix selects the command marker, "/" or "@".
	Prefix string `yaml:"prefix" envconfig:"GAME_PREFIX"`
	// AuthorizedIDs lists Telegram user IDs allowed to generate riddles.
	AuthorizedIDs []int64 `yaml:"authorized_ids" envconfig:"GAME_AUTHORIZED_IDS"`
	// DefaultChatID is the target chat used when /ge is issued without an argument.
	DefaultChatID int64 `yaml:"default_chat_id" envconfig:"GAME_DEFAULT_CHAT_ID"`
	// Source selects where riddles come from: postgres, http or static.
	Source string `yaml:"source" envconfig:"GAME_SOURCE"`
	// CollaboratorTimeoutSeconds bounds riddle fetch and wallet registration calls.
	CollaboratorTimeoutSeconds int `yaml:"collaborator_timeout_seconds" envconfig:"GAME_COLLABORATOR_TIMEOUT_SECONDS"`
}

// BackendConfig points at the prize backend used for remote riddles and wallet registration.
type BackendConfig struct {
	BaseURL    string `yaml:"base_url" envconfig:"BACKEND_BASE_URL"`
	WalletPath string `yaml:"wallet_path" envconfig:"BACKEND_WALLET_PATH"`
	RiddlePath string `yaml:"riddle_path" envconfig:"BACKEND_RIDDLE_PATH"`
}

// DatabaseConfig holds connection settings for the riddle database.
type DatabaseConfig struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// Config aggregates the full bot configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Game      GameConfig      `yaml:"game"`
	Backend   BackendConfig   `yaml:"backend"`
	Database  DatabaseConfig  `yaml:"database"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	allowed := map[string]struct{}{
		UpdateMessage:     {},
		UpdateInlineQuery: {},
	}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: message, inline_query", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}

	if err := normalizeGame(cfg); err != nil {
		return err
	}
	if err := normalizeBackend(cfg); err != nil {
		return err
	}
	return normalizeDatabase(cfg)
}

func normalizeGame(cfg *Config) error {
	prefix := strings.TrimSpace(cfg.Game.Prefix)
	if prefix == "" {
		prefix = PrefixSlash
	}
	switch prefix {
	case PrefixSlash, PrefixAt:
	default:
		return fmt.Errorf("invalid game.prefix %q; allowed: %q, %q", cfg.Game.Prefix, PrefixSlash, PrefixAt)
	}
	cfg.Game.Prefix = prefix

	src := strings.ToLower(strings.TrimSpace(cfg.Game.Source))
	if src == "" {
		src = SourceStatic
	}
	switch src {
	case SourcePostgres, SourceHTTP, SourceStatic:
	default:
		return fmt.Errorf("invalid game.source %q; allowed: postgres, http, static", cfg.Game.Source)
	}
	cfg.Game.Source = src

	if len(cfg.Game.AuthorizedIDs) == 0 {
		return fmt.Errorf("game.authorized_ids must not be empty")
	}
	if cfg.Game.CollaboratorTimeoutSeconds < 0 {
		return fmt.Errorf("game.collaborator_timeout_seconds must be >= 0")
	}
	if cfg.Game.CollaboratorTimeoutSeconds == 0 {
		cfg.Game.CollaboratorTimeoutSeconds = 5
	}
	return nil
}

func normalizeBackend(cfg *Config) error {
	base := strings.TrimSpace(cfg.Backend.BaseURL)
	if base == "" {
		if cfg.Game.Source == SourceHTTP {
			return fmt.Errorf("backend.base_url is required when game.source is 'http'")
		}
	} else {
		cfg.Backend.BaseURL = strings.TrimRight(base, "/")
	}
	if strings.TrimSpace(cfg.Backend.WalletPath) == "" {
		cfg.Backend.WalletPath = "/save-wallet"
	}
	if strings.TrimSpace(cfg.Backend.RiddlePath) == "" {
		cfg.Backend.RiddlePath = "/generateRiddle"
	}
	return nil
}

func normalizeDatabase(cfg *Config) error {
	if cfg.Game.Source != SourcePostgres {
		return nil
	}
	if strings.TrimSpace(cfg.Database.Host) == "" {
		return fmt.Errorf("database.host is required when game.source is 'postgres'")
	}
	if strings.TrimSpace(cfg.Database.Name) == "" {
		return fmt.Errorf("database.name is required when game.source is 'postgres'")
	}
	if strings.TrimSpace(cfg.Database.User) == "" {
		return fmt.Errorf("database.user is required when game.source is 'postgres'")
	}
	if strings.TrimSpace(cfg.Database.Port) == "" {
		cfg.Database.Port = "5432"
	}
	if strings.TrimSpace(cfg.Database.SSLMode) == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxConnections <= 0 {
		cfg.Database.MaxConnections = 4
	}
	return nil
}

// AuthorizedSet converts the configured allow-list into a membership set.
func (g GameConfig) AuthorizedSet() map[int64]struct{} {
	set := make(map[int64]struct{}, len(g.AuthorizedIDs))
	for _, id := range g.AuthorizedIDs {
		set[id] = struct{}{}
	}
	return set
}
