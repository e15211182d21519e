// Package config loads and validates the bot configuration from a YAML file
// with environment-variable overrides. Secret material (the Discord token)
// is env-only and never read from the file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Scout     ScoutConfig     `mapstructure:"scout"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Resolver  ResolverConfig  `mapstructure:"resolver"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Discord   DiscordConfig   `mapstructure:"discord"`
	Trend     TrendConfig     `mapstructure:"trend"`
	Chart     ChartConfig     `mapstructure:"chart"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ScoutConfig holds poe2scout API client configuration.
type ScoutConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CatalogConfig holds the TTL catalog cache configuration.
type CatalogConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	MaxLeagues int           `mapstructure:"max_leagues"`
}

// ResolverConfig holds fuzzy-matching configuration.
type ResolverConfig struct {
	Threshold int `mapstructure:"threshold"`
}

// RateLimitConfig holds the per-user cooldown configuration.
type RateLimitConfig struct {
	Cooldown time.Duration `mapstructure:"cooldown"`
}

// DiscordConfig holds the Discord transport configuration. Token is injected
// from the DISCORD_TOKEN environment variable, not the config file.
type DiscordConfig struct {
	Token   string `mapstructure:"-"`
	GuildID string `mapstructure:"guild_id"`
}

// TrendConfig holds price-history configuration.
type TrendConfig struct {
	HistoryLimit int `mapstructure:"history_limit"`
}

// ChartConfig holds chart-rendering configuration.
type ChartConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// MetricsConfig holds the Prometheus listener configuration.
type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ListenAddr string `mapstructure:"listen_addr"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	setDefaults(v)

	v.SetEnvPrefix("POE2_BOT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Discord.Token = os.Getenv("DISCORD_TOKEN")

	return &cfg, nil
}

// setDefaults configures default values for all configuration options.
func setDefaults(v *viper.Viper) {
	v.SetDefault("scout.base_url", "https://poe2scout.com")
	v.SetDefault("scout.timeout", "10s")

	v.SetDefault("catalog.ttl", "60s")
	v.SetDefault("catalog.max_leagues", 16)

	v.SetDefault("resolver.threshold", 60)

	v.SetDefault("ratelimit.cooldown", "5s")

	v.SetDefault("discord.guild_id", "")

	v.SetDefault("trend.history_limit", 24)
	v.SetDefault("chart.base_url", "https://quickchart.io")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.listen_addr", ":9184")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid.
func (c *Config) Validate() error {
	if c.Scout.BaseURL == "" {
		return fmt.Errorf("scout.base_url is required")
	}
	if c.Scout.Timeout < 1*time.Second {
		return fmt.Errorf("scout.timeout must be at least 1 second")
	}

	if c.Catalog.TTL < 1*time.Second {
		return fmt.Errorf("catalog.ttl must be at least 1 second")
	}
	if c.Catalog.MaxLeagues < 0 {
		return fmt.Errorf("catalog.max_leagues must not be negative")
	}

	if c.Resolver.Threshold < 0 || c.Resolver.Threshold > 100 {
		return fmt.Errorf("resolver.threshold must be between 0 and 100")
	}

	if c.RateLimit.Cooldown < 1*time.Second {
		return fmt.Errorf("ratelimit.cooldown must be at least 1 second")
	}

	if c.Discord.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN environment variable is required")
	}

	if c.Trend.HistoryLimit < 2 {
		return fmt.Errorf("trend.history_limit must be at least 2")
	}
	if c.Chart.BaseURL == "" {
		return fmt.Errorf("chart.base_url is required")
	}

	if c.Metrics.Enabled && c.Metrics.ListenAddr == "" {
		return fmt.Errorf("metrics.listen_addr is required when metrics are enabled")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
