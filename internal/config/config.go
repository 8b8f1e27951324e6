package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root server configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
}

// ServerConfig holds transport listener settings.
type ServerConfig struct {
	WebSocket       WebSocketConfig `mapstructure:"websocket"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout"`
}

// WebSocketConfig holds the websocket listener settings.
type WebSocketConfig struct {
	Address string `mapstructure:"address"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// DatabaseConfig holds the optional identity-store database settings. The
// server runs without a database; identities then live in memory only.
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// GameConfig holds the rule constants and bot pacing.
type GameConfig struct {
	StartingKarma     int           `mapstructure:"starting_karma"`
	TurnKarma         int           `mapstructure:"turn_karma"`
	MaxKarma          int           `mapstructure:"max_karma"`
	HandSize          int           `mapstructure:"hand_size"`
	DrawCost          int           `mapstructure:"draw_cost"`
	CaptureCost       int           `mapstructure:"capture_cost"`
	DefaultMaxPlayers int           `mapstructure:"default_max_players"`
	SinglePlayerBots  int           `mapstructure:"single_player_bots"`
	BotStepDelay      time.Duration `mapstructure:"bot_step_delay"`
}

// Load reads configuration from the given YAML file, with KARMA_-prefixed
// environment variable overrides. A missing file yields defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.websocket.address", ":8090")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.max_conns", 8)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("game.starting_karma", 3)
	v.SetDefault("game.turn_karma", 3)
	v.SetDefault("game.max_karma", 10)
	v.SetDefault("game.hand_size", 5)
	v.SetDefault("game.draw_cost", 1)
	v.SetDefault("game.capture_cost", 2)
	v.SetDefault("game.default_max_players", 4)
	v.SetDefault("game.single_player_bots", 2)
	v.SetDefault("game.bot_step_delay", 1200*time.Millisecond)

	v.SetEnvPrefix("KARMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			// A missing file just means defaults; anything else is fatal.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Game.StartingKarma < 0 || c.Game.TurnKarma < 0 {
		return fmt.Errorf("karma allowances must be non-negative")
	}
	if c.Game.MaxKarma < c.Game.StartingKarma || c.Game.MaxKarma < c.Game.TurnKarma {
		return fmt.Errorf("max_karma %d below karma allowance", c.Game.MaxKarma)
	}
	if c.Game.DefaultMaxPlayers < 2 || c.Game.DefaultMaxPlayers > 6 {
		return fmt.Errorf("default_max_players must be between 2 and 6")
	}
	if c.Database.Enabled && c.Database.URL == "" {
		return fmt.Errorf("database.url is required when database.enabled")
	}
	return nil
}
