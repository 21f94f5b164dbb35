// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/sethvargo/go-retry"
	_ "modernc.org/sqlite"
)

// Dialect names a supported database backend
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// ParseDialect accepts the DATABASE_TYPE config value
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case SQLite, Postgres:
		return Dialect(s), nil
	}
	return "", fmt.Errorf("unsupported database type %q", s)
}

// Driver returns the database/sql driver name
func (d Dialect) Driver() string {
	return string(d)
}

// Rebind rewrites ? placeholders into $N for postgres.
// Queries must not contain a literal question mark.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Open connects and pings the database, retrying while it comes up
func Open(ctx context.Context, dialect Dialect, url string) (*sql.DB, error) {
	conn, err := sql.Open(dialect.Driver(), url)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	if dialect == SQLite {
		// One writer at a time; avoids SQLITE_BUSY under concurrent requests
		conn.SetMaxOpenConns(1)
	}

	backoff := retry.WithMaxRetries(5, retry.NewExponential(200*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := conn.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	return conn, nil
}
