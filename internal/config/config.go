// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	minSecretKeyLen = 16
	devSecretKey    = "portal-dev-secret-do-not-deploy"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DatabaseURL   string
	SecretKey     []byte
	Env           string
	ListenAddr    string
	SessionTTL    time.Duration
	SweepInterval time.Duration
	CookieSecure  bool
	LogLevel      slog.Level
}

// IsDev reports whether the process runs in the development environment.
func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables and returns a validated Config.
// DATABASE_URL is required. PORTAL_SECRET_KEY is required unless PORTAL_ENV is
// "dev" and must be at least 16 bytes long.
// Optional variables with defaults: PORTAL_LISTEN_ADDR (127.0.0.1:5000),
// PORTAL_SESSION_TTL (12h), PORTAL_SESSION_SWEEP_INTERVAL (15m),
// PORTAL_COOKIE_SECURE (false), PORTAL_LOG_LEVEL (info).
func Load() (*Config, error) {
	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	env := strings.ToLower(strings.TrimSpace(os.Getenv("PORTAL_ENV")))
	if env == "" {
		env = "production"
	}

	secret := os.Getenv("PORTAL_SECRET_KEY")
	switch {
	case secret == "" && env == "dev":
		secret = devSecretKey
	case secret == "":
		return nil, errors.New("PORTAL_SECRET_KEY is required outside the dev environment")
	case len(secret) < minSecretKeyLen:
		return nil, fmt.Errorf("PORTAL_SECRET_KEY must be at least %d bytes, got %d", minSecretKeyLen, len(secret))
	}

	listenAddr := "127.0.0.1:5000"
	if v, ok := os.LookupEnv("PORTAL_LISTEN_ADDR"); ok && v != "" {
		listenAddr = v
	}

	sessionTTL, err := durationEnv("PORTAL_SESSION_TTL", 12*time.Hour)
	if err != nil {
		return nil, err
	}

	sweepInterval, err := durationEnv("PORTAL_SESSION_SWEEP_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	cookieSecure := false
	if v, ok := os.LookupEnv("PORTAL_COOKIE_SECURE"); ok && v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("PORTAL_COOKIE_SECURE has invalid boolean %q: %w", v, err)
		}
		cookieSecure = parsed
	}

	logLevel := slog.LevelInfo
	if v, ok := os.LookupEnv("PORTAL_LOG_LEVEL"); ok && v != "" {
		if err := logLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("PORTAL_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	return &Config{
		DatabaseURL:   databaseURL,
		SecretKey:     []byte(secret),
		Env:           env,
		ListenAddr:    listenAddr,
		SessionTTL:    sessionTTL,
		SweepInterval: sweepInterval,
		CookieSecure:  cookieSecure,
		LogLevel:      logLevel,
	}, nil
}

// durationEnv parses a positive duration from key, or returns def when unset.
func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid duration %q: %w", key, v, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, parsed)
	}
	return parsed, nil
}
