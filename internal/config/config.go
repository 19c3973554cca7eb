package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/brentlens/brentlens/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	Provider  ProviderConfig  `mapstructure:"provider"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Server    ServerConfig    `mapstructure:"server"`
	Recorder  RecorderConfig  `mapstructure:"recorder"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ProviderConfig holds the analysis API (data provider) configuration
type ProviderConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// DashboardConfig holds the correlation/view behavior configuration
type DashboardConfig struct {
	DefaultStart          string        `mapstructure:"default_start"`
	DefaultEnd            string        `mapstructure:"default_end"`
	AssociationWindowDays int           `mapstructure:"association_window_days"`
	RefreshInterval       time.Duration `mapstructure:"refresh_interval"`
}

// ServerConfig holds the HTTP API configuration
type ServerConfig struct {
	ListenAddr     string   `mapstructure:"listen_addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Enabled        bool     `mapstructure:"enabled"`
}

// RecorderConfig holds the fetch-cycle audit log configuration
type RecorderConfig struct {
	SQLitePath string `mapstructure:"sqlite_path"`
	Enabled    bool   `mapstructure:"enabled"`
}

// TelegramConfig holds operator alerting configuration
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	Enabled  bool   `mapstructure:"enabled"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	setDefaults(v)

	v.SetEnvPrefix("BRENTLENS")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Provider defaults
	v.SetDefault("provider.base_url", "http://localhost:5000")
	v.SetDefault("provider.timeout", "30s")
	v.SetDefault("provider.max_retries", 3)
	v.SetDefault("provider.retry_delay_base", "1s")

	// Dashboard defaults: the baseline dataset spans 1987-05-20..2022-09-30.
	v.SetDefault("dashboard.default_start", "1987-05-20")
	v.SetDefault("dashboard.default_end", "2022-09-30")
	v.SetDefault("dashboard.association_window_days", 30)
	v.SetDefault("dashboard.refresh_interval", "15m")

	// Server defaults
	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.enabled", true)

	// Recorder defaults
	v.SetDefault("recorder.sqlite_path", "./data/brentlens.db")
	v.SetDefault("recorder.enabled", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is required")
	}
	if c.Provider.Timeout < time.Second {
		return fmt.Errorf("provider.timeout must be at least 1 second")
	}
	if c.Provider.MaxRetries < 1 {
		return fmt.Errorf("provider.max_retries must be at least 1")
	}

	if _, err := c.DefaultRange(); err != nil {
		return err
	}
	if c.Dashboard.AssociationWindowDays < 1 {
		return fmt.Errorf("dashboard.association_window_days must be at least 1")
	}
	if c.Dashboard.RefreshInterval < time.Minute {
		return fmt.Errorf("dashboard.refresh_interval must be at least 1 minute")
	}

	if c.Server.Enabled && c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required when server is enabled")
	}

	if c.Recorder.Enabled && c.Recorder.SQLitePath == "" {
		return fmt.Errorf("recorder.sqlite_path is required when recorder is enabled")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
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

// DefaultRange parses the configured default date range.
func (c *Config) DefaultRange() (models.DateRange, error) {
	start, err := models.ParseDate(c.Dashboard.DefaultStart)
	if err != nil {
		return models.DateRange{}, fmt.Errorf("dashboard.default_start: %w", err)
	}
	end, err := models.ParseDate(c.Dashboard.DefaultEnd)
	if err != nil {
		return models.DateRange{}, fmt.Errorf("dashboard.default_end: %w", err)
	}
	r, err := models.NewDateRange(start, end)
	if err != nil {
		return models.DateRange{}, fmt.Errorf("dashboard default range: %w", err)
	}
	return r, nil
}
