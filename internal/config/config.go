package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// OMDb client modes.
const (
	OMDbModeLive   = "live"
	OMDbModeStatic = "static"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	OMDb     OMDBConfig     `mapstructure:"omdb"`
	Sessions SessionsConfig `mapstructure:"sessions"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host      string          `mapstructure:"host"`
	Port      int             `mapstructure:"port"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig holds per-client request limits for the API.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// OMDBConfig holds OMDb API configuration.
type OMDBConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // seconds
	Mode    string `mapstructure:"mode"`    // "live" or "static"
}

// SessionsConfig controls how long idle search sessions are kept.
type SessionsConfig struct {
	IdleTTL   time.Duration `mapstructure:"idle_ttl"`
	SweepCron string        `mapstructure:"sweep_cron"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
			RateLimit: RateLimitConfig{
				RequestsPerSecond: 10,
				Burst:             20,
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
		OMDb: OMDBConfig{
			APIKey:  EmbeddedOMDbKey,
			BaseURL: "https://www.omdbapi.com/",
			Timeout: 10,
			Mode:    OMDbModeLive,
		},
		Sessions: SessionsConfig{
			IdleTTL:   30 * time.Minute,
			SweepCron: "*/5 * * * *",
		},
	}
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.reelfinder")
	}

	v.SetEnvPrefix("REELFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults mirrors Default() so every key is known to viper and can be
// overridden from the environment.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.rate_limit.requests_per_second", d.Server.RateLimit.RequestsPerSecond)
	v.SetDefault("server.rate_limit.burst", d.Server.RateLimit.Burst)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.path", d.Logging.Path)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
	v.SetDefault("logging.compress", d.Logging.Compress)

	v.SetDefault("omdb.api_key", d.OMDb.APIKey)
	v.SetDefault("omdb.base_url", d.OMDb.BaseURL)
	v.SetDefault("omdb.timeout", d.OMDb.Timeout)
	v.SetDefault("omdb.mode", d.OMDb.Mode)

	v.SetDefault("sessions.idle_ttl", d.Sessions.IdleTTL)
	v.SetDefault("sessions.sweep_cron", d.Sessions.SweepCron)
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.OMDb.Mode {
	case OMDbModeLive, OMDbModeStatic:
	default:
		return fmt.Errorf("invalid omdb.mode %q: must be %q or %q", c.OMDb.Mode, OMDbModeLive, OMDbModeStatic)
	}
	if c.OMDb.Mode == OMDbModeLive && c.OMDb.BaseURL == "" {
		return fmt.Errorf("omdb.base_url is required in %s mode", OMDbModeLive)
	}
	if c.Sessions.IdleTTL <= 0 {
		return fmt.Errorf("sessions.idle_ttl must be positive, got %s", c.Sessions.IdleTTL)
	}
	return nil
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
