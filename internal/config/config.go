package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

const devSecret = "dev-secret-change-in-production"

type Config struct {
	Port        string
	Env         string
	DatabaseDSN string
	TokenSecret string

	// Token lifetimes differ per entry point. The web signup path hands out a
	// shorter-lived cookie than the web login path, and the extension API hands
	// out 30 days on both. The asymmetry is intentional product behavior.
	WebSignupTokenTTL time.Duration
	WebLoginTokenTTL  time.Duration
	APITokenTTL       time.Duration

	CookieName     string
	AllowedOrigins []string
}

func Load() Config {
	cfg := Config{
		Port:              getEnv("PORT", "5000"),
		Env:               getEnv("ENV", "development"),
		DatabaseDSN:       getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/blinkclip?parseTime=true"),
		TokenSecret:       getEnv("TOKEN_SECRET", devSecret),
		WebSignupTokenTTL: 7 * 24 * time.Hour,
		WebLoginTokenTTL:  30 * 24 * time.Hour,
		APITokenTTL:       30 * 24 * time.Hour,
		CookieName:        "token",
		AllowedOrigins:    getSliceEnv("ALLOWED_ORIGINS", []string{"http://localhost:5000"}),
	}

	if cfg.Env == "production" && cfg.TokenSecret == devSecret {
		slog.Error("TOKEN_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

// IsProduction reports whether the server runs in production mode. Cookies are
// only marked Secure in production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getSliceEnv(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
