// pkg/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	HTTPAddr string

	// Default base URL used when a tenant has no BasePublicURL of its own.
	// Share links posted to Slack / MS Teams are built from it.
	DefaultBasePublicURL string

	// OIDC / JWT (tenant-specific overrides via provider)
	Issuer   string
	Audience string
	JWKSURL  string

	// Outbound vendor validation calls (ping / test message / discovery)
	ValidationTimeout time.Duration

	// Remote metadata cache (issue-tracker projects, log groups)
	MetadataCacheTTL time.Duration

	// Redis & Postgres
	RedisURL    string
	DatabaseURL string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:                  env("SIGHTLINE_ENV", "dev"),
		HTTPAddr:             env("SIGHTLINE_HTTP_ADDR", ":8080"),
		DefaultBasePublicURL: env("BASE_PUBLIC_URL", "http://localhost:8080"),
		Issuer:               env("OIDC_ISSUER", ""),
		Audience:             env("OIDC_AUDIENCE", "sightline-api"),
		JWKSURL:              env("JWKS_URL", ""),
		ValidationTimeout:    envDur("VALIDATION_TIMEOUT_SEC", 8) * time.Second,
		MetadataCacheTTL:     envDur("METADATA_CACHE_TTL_SEC", 300) * time.Second,
		RedisURL:             env("REDIS_URL", ""),
		DatabaseURL:          env("DATABASE_URL", ""),
	}
	if cfg.DatabaseURL == "" {
		log.Println("[WARN] DATABASE_URL not set — using in-memory stores for dev")
	}
	return cfg
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envDur(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		i, _ := strconv.Atoi(v)
		return time.Duration(i)
	}
	return time.Duration(def)
}
