// Package config loads the server configuration from a YAML file, filling in
// defaults for anything unset.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// HTTP is the listen address, e.g. "localhost:8745" or ":8745".
	HTTP string `yaml:"http"`
	// DataDir holds data.json, the document blobs and the history repo.
	DataDir  string `yaml:"data_dir"`
	LogLevel string `yaml:"log_level"`
	// History enables git tracking of the data directory.
	History       bool                `yaml:"history"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Limits        LimitsConfig        `yaml:"limits"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

// RateLimitConfig contains rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	Burst             int  `yaml:"burst"`
}

// LimitsConfig caps request sizes.
type LimitsConfig struct {
	MaxBodyBytes   int64 `yaml:"max_body_bytes"`
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// NotificationsConfig contains web push settings. Push is enabled only when
// both VAPID keys are set.
type NotificationsConfig struct {
	DailyScanTime   string `yaml:"daily_scan_time"`
	VAPIDPublicKey  string `yaml:"vapid_public_key"`
	VAPIDPrivateKey string `yaml:"vapid_private_key"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		HTTP:     "localhost:8745",
		DataDir:  "./data",
		LogLevel: "info",
		History:  true,
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 300,
			Burst:             50,
		},
		Limits: LimitsConfig{
			MaxBodyBytes:   1 << 20,  // 1 MiB
			MaxUploadBytes: 64 << 20, // 64 MiB
		},
		Notifications: NotificationsConfig{
			DailyScanTime: "08:00",
		},
	}
}

// PushEnabled returns true when both VAPID keys are configured.
func (c *NotificationsConfig) PushEnabled() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

// Load reads the config file at path. A missing file yields the defaults;
// a present but malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.HTTP == "" {
		cfg.HTTP = "localhost:8745"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.RateLimit.RequestsPerMinute <= 0 {
		cfg.RateLimit.RequestsPerMinute = 300
	}
	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = 50
	}
	if cfg.Notifications.DailyScanTime == "" {
		cfg.Notifications.DailyScanTime = "08:00"
	}
	return cfg, nil
}
