// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and manages its schema.

# Connecting

Open picks the driver for the dialect (modernc.org/sqlite or lib/pq) and
pings with exponential backoff until the database answers:

	conn, err := db.Open(ctx, db.Postgres, cfg.DatabaseURL)

SQLite connections are capped at one open connection.

# Migrations

Schema changes are goose migrations embedded per dialect under
migrations/sqlite and migrations/postgres:

	if err := db.Migrate(ctx, conn, db.SQLite); err != nil {
		log.Fatal(err)
	}

Migrate is safe to call on every start.

# Tables

  - poll: window, slot duration, display timezone, lifecycle status
  - poll_response: one row per respondent, with the hashed edit token
  - availability_slot: the respondent's slots, keyed by (response_id, slot_start)

# Relationships

	poll 1──* poll_response
	poll_response 1──* availability_slot

All foreign keys use ON DELETE CASCADE.

# Placeholders

Queries are written with ? placeholders; Dialect.Rebind converts them to
$N for postgres.
*/
package db
