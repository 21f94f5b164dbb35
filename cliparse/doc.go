// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Connection string (default: a local SQLite file)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - PollSlugSalt: Secret for share slug and edit token hashing (required)
  - BaseURL: Prefix for share links returned on poll creation
  - LogLevel, LogFormat: slog level and handler (text or json)
  - BestSlotsLimit: Default size of the best-times list (default: 5)

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-base-url     Share link base URL
	-admin-salt   Admin key salt
	-slug-salt    Poll slug salt
	-log-level    Log level
	-log-format   Log format
	-best         Best slots limit

# Environment Variables

Flags fall back to environment variables:

	PORT             → -p
	DATABASE_URL     → -d
	DATABASE_TYPE    → -t
	BASE_URL         → -base-url
	ADMIN_KEY_SALT   → -admin-salt
	POLL_SLUG_SALT   → -slug-salt
	LOG_LEVEL        → -log-level
	LOG_FORMAT       → -log-format
	BEST_SLOTS_LIMIT → -best

CLI flags take precedence over environment variables. A .env file in the
working directory is loaded before parsing and never overrides variables
that are already set.

# Validation

ParseFlags returns an error if:

  - ADMIN_KEY_SALT or POLL_SLUG_SALT is missing
  - DATABASE_TYPE is postgres and no DATABASE_URL is given
  - a numeric setting does not parse, or the log format is unknown
*/
package cliparse
