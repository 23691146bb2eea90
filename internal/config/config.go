// Package config manages application configuration from defaults, an
// optional config.yaml, and BOT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the application configuration. Values can be set in config.yaml
// or via environment variables prefixed with BOT_ (e.g. BOT_TELEGRAM_TOKEN).
type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Limits    LimitsConfig    `mapstructure:"limits"`
	Log       LogConfig       `mapstructure:"log"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// TelegramConfig holds the bot credential and broadcast destinations.
// Zero chat ids mean the destination is not configured.
type TelegramConfig struct {
	Token    string  `mapstructure:"token"     validate:"required"`
	AdminIDs []int64 `mapstructure:"admin_ids" validate:"dive,gt=0"`

	ModerationChatID  int64 `mapstructure:"moderation_chat_id"`
	PublicationChatID int64 `mapstructure:"publication_chat_id"`

	// RequiredChannel gates bot usage behind a channel subscription when
	// set (e.g. "@nasha_baraholka"). Empty disables the gate.
	RequiredChannel string `mapstructure:"required_channel"`
}

// DatabaseConfig holds the SQLite location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// LimitsConfig holds the per-owner submission limit.
type LimitsConfig struct {
	// DailyAds caps ads created per owner in a rolling 24-hour window.
	DailyAds int `mapstructure:"daily_ads" validate:"required,min=1"`
}

// LogConfig selects the slog level and output format.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a scheduled task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// LoadConfig loads and validates configuration from the given file path
// (optional file, BOT_* env vars always apply). Missing required values,
// notably the bot token, fail fast.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Every key needs a default so env-only values are visible to Unmarshal.
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.admin_ids", []int64{})
	v.SetDefault("telegram.moderation_chat_id", 0)
	v.SetDefault("telegram.publication_chat_id", 0)
	v.SetDefault("telegram.required_channel", "")
	v.SetDefault("database.path", "baraholka.db")
	v.SetDefault("limits.daily_ads", 3)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.sql_maintenance.schedule", "0 4 * * *")

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults cover it.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// IsAdmin reports whether userID belongs to the configured admin set.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Telegram.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// RequiredChannelURL returns the join link for the required channel, or ""
// when no channel is configured.
func (c *Config) RequiredChannelURL() string {
	channel := strings.TrimPrefix(c.Telegram.RequiredChannel, "@")
	if channel == "" {
		return ""
	}
	return "https://t.me/" + channel
}
