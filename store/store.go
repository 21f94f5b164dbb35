// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-meet/db"
)

// Store persists polls and responses over database/sql.
// It is safe for concurrent use.
type Store struct {
	conn    *sql.DB
	dialect db.Dialect
	now     func() time.Time
}

func New(conn *sql.DB, dialect db.Dialect) *Store {
	return &Store{
		conn:    conn,
		dialect: dialect,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Ping checks the connection. Used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) q(query string) string {
	return s.dialect.Rebind(query)
}

// forUpdate is appended to row reads inside write transactions.
// SQLite serializes writers on its own.
func (s *Store) forUpdate() string {
	if s.dialect == db.Postgres {
		return " FOR UPDATE"
	}
	return ""
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func utcPtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
