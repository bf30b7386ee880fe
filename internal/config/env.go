// internal/config/env.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// applyEnv overlays the recognized environment variables onto cfg
func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("METRICS_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = p
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Server.LogLevel = v
	}

	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("JWT_ALGORITHM"); v != "" {
		cfg.JWT.Algorithm = v
	}
	if v := os.Getenv("JWT_EXPIRATION_HOURS"); v != "" {
		if h, err := strconv.Atoi(v); err == nil {
			cfg.JWT.Expiration = time.Duration(h) * time.Hour
		}
	}
	if v := os.Getenv("JWT_REFRESH_EXPIRATION_DAYS"); v != "" {
		if d, err := strconv.Atoi(v); err == nil {
			cfg.JWT.RefreshExpirationDays = d
		}
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORS.Origins = splitList(v)
	}

	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		cfg.RateLimit.Enabled = parseBool(v, cfg.RateLimit.Enabled)
	}
	if v := os.Getenv("RATE_LIMIT_BYPASS_SUPER_ADMIN"); v != "" {
		cfg.RateLimit.BypassSuperAdmin = parseBool(v, cfg.RateLimit.BypassSuperAdmin)
	}

	if v := os.Getenv("FEED_SYNC_INTERVAL_MINUTES"); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m > 0 {
			cfg.Feeds.SyncInterval = time.Duration(m) * time.Minute
		}
	}
	if v := os.Getenv("NVD_API_KEY"); v != "" {
		cfg.Feeds.NVDAPIKey = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseBool(v string, fallback bool) bool {
	parsed, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return fallback
	}
	return parsed
}
