// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package config loads sqlited's TOML configuration file, overridable by
// SQLITED__-prefixed environment variables, matching the teacher's
// viper-based config loading convention.
package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the process-wide configuration surface. Ambient concerns only:
// the coordinator and transport layers read from this, never from viper
// directly.
type Config struct {
	Host string `toml:"host" mapstructure:"host"`
	Port int    `toml:"port" mapstructure:"port"`

	DataDir      string `toml:"dataDir" mapstructure:"dataDir"`
	DatabasePath string `toml:"databasePath" mapstructure:"databasePath"`

	LogLevel      string `toml:"logLevel" mapstructure:"logLevel"`
	LogPath       string `toml:"logPath" mapstructure:"logPath"`
	LogMaxSize    int    `toml:"logMaxSize" mapstructure:"logMaxSize"`
	LogMaxBackups int    `toml:"logMaxBackups" mapstructure:"logMaxBackups"`

	RetryDelayMs int `toml:"retryDelayMs" mapstructure:"retryDelayMs"`

	MetricsEnabled bool   `toml:"metricsEnabled" mapstructure:"metricsEnabled"`
	MetricsHost    string `toml:"metricsHost" mapstructure:"metricsHost"`
	MetricsPort    int    `toml:"metricsPort" mapstructure:"metricsPort"`

	configDir string
}

const envPrefix = "SQLITED"

func defaults(v *viper.Viper) {
	v.SetDefault("host", "localhost")
	v.SetDefault("port", 7337)
	v.SetDefault("logLevel", "INFO")
	v.SetDefault("logMaxSize", 50)
	v.SetDefault("logMaxBackups", 3)
	v.SetDefault("retryDelayMs", 2000)
	v.SetDefault("metricsEnabled", false)
	v.SetDefault("metricsHost", "localhost")
	v.SetDefault("metricsPort", 9074)
}

// New loads configuration from configPath, a TOML file, applying
// SQLITED__-prefixed environment variable overrides (e.g.
// SQLITED__DATABASE_PATH overrides databasePath) the way the teacher's
// QUI__ prefix does.
func New(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	defaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range map[string]string{
		"host": "HOST", "port": "PORT", "dataDir": "DATA_DIR", "databasePath": "DATABASE_PATH",
		"logLevel": "LOG_LEVEL", "logPath": "LOG_PATH", "logMaxSize": "LOG_MAX_SIZE", "logMaxBackups": "LOG_MAX_BACKUPS",
		"retryDelayMs": "RETRY_DELAY_MS", "metricsEnabled": "METRICS_ENABLED", "metricsHost": "METRICS_HOST", "metricsPort": "METRICS_PORT",
	} {
		_ = v.BindEnv(key, envPrefix+"__"+env)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{configDir: filepath.Dir(configPath)}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetDatabasePath resolves the configured SQLite file path, defaulting to
// sqlited.db next to the config file when unset, matching the teacher's
// backward-compatible "next to config" default.
func (c *Config) GetDatabasePath() string {
	if c.DatabasePath != "" {
		if filepath.IsAbs(c.DatabasePath) {
			return c.DatabasePath
		}
		return filepath.Join(c.configDir, c.DatabasePath)
	}
	return filepath.Join(c.configDir, "sqlited.db")
}

// RetryDelay is RetryDelayMs as a time.Duration, defaulting to spec.md
// §4.3's reference value of 2 seconds when unset.
func (c *Config) RetryDelay() time.Duration {
	if c.RetryDelayMs <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

// ListenAddr is the host:port the HTTP/WS transport should bind.
func (c *Config) ListenAddr() string {
	return c.Host + ":" + itoa(c.Port)
}

// MetricsAddr is the host:port the prometheus exporter should bind.
func (c *Config) MetricsAddr() string {
	return c.MetricsHost + ":" + itoa(c.MetricsPort)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
