// internal/config/config.go
// Process-wide configuration. The recognized settings form a closed set:
// anything not listed here is ignored, and per-provider feed credentials
// live on the integration rows, not in the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	JWT       JWTConfig       `yaml:"jwt"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Feeds     FeedsConfig     `yaml:"feeds"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	LogLevel    string `yaml:"log_level"`
}

type JWTConfig struct {
	Secret                string        `yaml:"secret"`
	Algorithm             string        `yaml:"algorithm"`
	Expiration            time.Duration `yaml:"expiration"`
	RefreshExpirationDays int           `yaml:"refresh_expiration_days"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

type CORSConfig struct {
	Origins []string `yaml:"origins"`
}

type RateLimitConfig struct {
	Enabled          bool `yaml:"enabled"`
	BypassSuperAdmin bool `yaml:"bypass_super_admin"`
}

type FeedsConfig struct {
	SyncInterval time.Duration `yaml:"sync_interval"`
	NVDAPIKey    string        `yaml:"nvd_api_key"`
}

// Default returns the baseline configuration before file and env overlays
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			MetricsPort: 9090,
			LogLevel:    "info",
		},
		JWT: JWTConfig{
			Algorithm:             "HS256",
			Expiration:            24 * time.Hour,
			RefreshExpirationDays: 30,
		},
		RateLimit: RateLimitConfig{
			Enabled:          true,
			BypassSuperAdmin: true,
		},
		Feeds: FeedsConfig{
			SyncInterval: time.Hour,
		},
	}
}

// Load builds the configuration: defaults, then the optional YAML file,
// then the environment on top.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the process cannot run with
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	if c.JWT.Algorithm != "HS256" {
		return fmt.Errorf("config: unsupported JWT algorithm %q", c.JWT.Algorithm)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("config: DATABASE_URL is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	return nil
}
