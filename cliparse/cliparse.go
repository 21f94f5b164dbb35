// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultPort           = 3318
	DefaultDatabaseType   = "sqlite"
	DefaultSQLiteURL      = "file:quickly-meet.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	DefaultBestSlotsLimit = 5
)

type Config struct {
	Port           int
	DatabaseURL    string
	DatabaseType   string
	AdminKeySalt   string
	PollSlugSalt   string
	BaseURL        string
	LogLevel       string
	LogFormat      string
	BestSlotsLimit int
}

// ShareURL returns the public link for a poll slug
func (c Config) ShareURL(slug string) string {
	if c.BaseURL == "" {
		return "/polls/" + slug
	}
	return strings.TrimRight(c.BaseURL, "/") + "/polls/" + slug
}

// SlogLevel maps LogLevel onto slog, defaulting to info
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseFlags validates flags and sets port number.
// A .env file in the working directory is loaded first when present;
// it never overrides variables already set in the environment.
func ParseFlags(args []string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config

	fs := flag.NewFlagSet("quickly-meet", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.BaseURL, "base-url", "", "Public base URL for share links")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	fs.StringVar(&cfg.PollSlugSalt, "slug-salt", "", "Poll slug salt (prefer env)")

	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "Log format (text or json)")
	fs.IntVar(&cfg.BestSlotsLimit, "best", 0, "Number of best slots returned with results")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := intEnv("PORT", DefaultPort)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DefaultDatabaseType
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == "postgres" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = DefaultSQLiteURL
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	if cfg.PollSlugSalt == "" {
		cfg.PollSlugSalt = os.Getenv("POLL_SLUG_SALT")
	}
	if cfg.PollSlugSalt == "" {
		return Config{}, errors.New("POLL_SLUG_SALT required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("BASE_URL")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = envOr("LOG_LEVEL", "info")
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = envOr("LOG_FORMAT", "text")
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return Config{}, fmt.Errorf("unsupported log format %q", cfg.LogFormat)
	}

	if cfg.BestSlotsLimit == 0 {
		limit, err := intEnv("BEST_SLOTS_LIMIT", DefaultBestSlotsLimit)
		if err != nil {
			return Config{}, err
		}
		cfg.BestSlotsLimit = limit
	}
	if cfg.BestSlotsLimit < 1 {
		return Config{}, errors.New("best slots limit must be positive")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}
