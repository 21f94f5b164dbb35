// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Meet API server.

Quickly Meet is a group availability poll. An organizer proposes a date
and time window split into fixed-length slots, respondents paint the slots
they can make (available or if needed), and the server aggregates and ranks
the slots to suggest the best meeting time.

# Starting the Server

With no database settings the server uses a local SQLite file:

	ADMIN_KEY_SALT=... POLL_SLUG_SALT=... go run .

Or against PostgreSQL with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC
  - POLL_SLUG_SALT (-slug-salt): Secret for share slugs and edit token hashes

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): Connection string, required for postgres
  - BASE_URL (-base-url): Prefix for share URLs
  - LOG_LEVEL, LOG_FORMAT: slog level and text or json output
  - BEST_SLOTS_LIMIT (-best): Default number of best slots in results

A .env file in the working directory is loaded first when present.

# Architecture

  - slotgrid: Timezone conversion, grid generation and the grid cache
  - selection: Drag selection state machine
  - aggregate: Per-slot tallies and ranking
  - lifecycle: Poll status transitions
  - service: Poll operations over the store
  - store: SQL persistence for sqlite and postgres
  - db: Connections and goose migrations
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, request ids, metrics, JSON helpers
  - metrics: Prometheus collectors
  - models: Request/response types
  - auth: Keys, tokens and slugs
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
