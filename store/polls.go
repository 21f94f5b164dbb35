// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/quickly-meet/lifecycle"
	"github.com/danielhkuo/quickly-meet/models"
)

const pollColumns = `p.id, p.slug, p.title, p.description, p.status,
	p.datetime_start, p.datetime_end, p.slot_duration_minutes, p.timezone,
	p.finalized_time, p.created_at, p.updated_at`

const responseCountColumn = `(SELECT COUNT(*) FROM poll_response r WHERE r.poll_id = p.id)`

func scanPoll(sc scanner, extra ...any) (models.Poll, error) {
	var p models.Poll
	var status string
	var finalized sql.NullTime

	dest := []any{
		&p.ID, &p.Slug, &p.Title, &p.Description, &status,
		&p.DatetimeStart, &p.DatetimeEnd, &p.SlotDurationMinutes, &p.Timezone,
		&finalized, &p.CreatedAt, &p.UpdatedAt,
	}
	if err := sc.Scan(append(dest, extra...)...); err != nil {
		return models.Poll{}, err
	}

	p.Status = lifecycle.Status(status)
	p.DatetimeStart = p.DatetimeStart.UTC()
	p.DatetimeEnd = p.DatetimeEnd.UTC()
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	p.FinalizedTime = utcPtr(finalized)
	return p, nil
}

// CreatePoll inserts p and fills in its id and timestamps.
// Returns ErrDuplicate when the slug is taken.
func (s *Store) CreatePoll(ctx context.Context, p *models.Poll) error {
	now := s.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = lifecycle.Open
	}

	err := s.conn.QueryRowContext(ctx, s.q(`
		INSERT INTO poll (slug, title, description, status, datetime_start, datetime_end,
			slot_duration_minutes, timezone, finalized_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`), p.Slug, p.Title, p.Description, string(p.Status), p.DatetimeStart.UTC(), p.DatetimeEnd.UTC(),
		p.SlotDurationMinutes, p.Timezone, nullTime(p.FinalizedTime), now, now).Scan(&p.ID)

	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert poll: %w", err)
	}
	return nil
}

// GetPollBySlug loads a poll with its response count
func (s *Store) GetPollBySlug(ctx context.Context, slug string) (models.Poll, error) {
	var count int
	row := s.conn.QueryRowContext(ctx, s.q(`
		SELECT `+pollColumns+`, `+responseCountColumn+`
		FROM poll p
		WHERE p.slug = ?
	`), slug)

	p, err := scanPoll(row, &count)
	if err != nil {
		return models.Poll{}, notFound(err)
	}
	p.ResponseCount = count
	return p, nil
}

// GetPollByID loads a poll with its response count
func (s *Store) GetPollByID(ctx context.Context, id int64) (models.Poll, error) {
	var count int
	row := s.conn.QueryRowContext(ctx, s.q(`
		SELECT `+pollColumns+`, `+responseCountColumn+`
		FROM poll p
		WHERE p.id = ?
	`), id)

	p, err := scanPoll(row, &count)
	if err != nil {
		return models.Poll{}, notFound(err)
	}
	p.ResponseCount = count
	return p, nil
}

// ListPolls returns polls newest first, optionally filtered by status
func (s *Store) ListPolls(ctx context.Context, status lifecycle.Status) ([]models.Poll, error) {
	query := `SELECT ` + pollColumns + `, ` + responseCountColumn + ` FROM poll p`
	var args []any
	if status != "" {
		query += ` WHERE p.status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY p.id DESC`

	rows, err := s.conn.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query polls: %w", err)
	}
	defer rows.Close()

	polls := []models.Poll{}
	for rows.Next() {
		var count int
		p, err := scanPoll(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("scan poll: %w", err)
		}
		p.ResponseCount = count
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate polls: %w", err)
	}
	return polls, nil
}

func (s *Store) lockPoll(ctx context.Context, tx *sql.Tx, id int64) (models.Poll, error) {
	row := tx.QueryRowContext(ctx, s.q(`SELECT `+pollColumns+` FROM poll p WHERE p.id = ?`+s.forUpdate()), id)
	p, err := scanPoll(row)
	if err != nil {
		return models.Poll{}, notFound(err)
	}

	if err := tx.QueryRowContext(ctx, s.q(`SELECT COUNT(*) FROM poll_response WHERE poll_id = ?`), id).Scan(&p.ResponseCount); err != nil {
		return models.Poll{}, fmt.Errorf("count responses: %w", err)
	}
	return p, nil
}

// UpdatePoll loads the poll inside a transaction, hands it to fn, and
// writes back whatever fn left in it. An error from fn aborts the write
// and is returned unchanged. Id, slug and created_at are never written.
func (s *Store) UpdatePoll(ctx context.Context, id int64, fn func(p *models.Poll) error) (models.Poll, error) {
	var updated models.Poll

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		p, err := s.lockPoll(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := fn(&p); err != nil {
			return err
		}
		p.UpdatedAt = s.now()

		_, err = tx.ExecContext(ctx, s.q(`
			UPDATE poll
			SET title = ?, description = ?, status = ?, datetime_start = ?, datetime_end = ?,
				slot_duration_minutes = ?, timezone = ?, finalized_time = ?, updated_at = ?
			WHERE id = ?
		`), p.Title, p.Description, string(p.Status), p.DatetimeStart.UTC(), p.DatetimeEnd.UTC(),
			p.SlotDurationMinutes, p.Timezone, nullTime(p.FinalizedTime), p.UpdatedAt, id)
		if err != nil {
			return fmt.Errorf("update poll: %w", err)
		}

		updated = p
		return nil
	})
	if err != nil {
		return models.Poll{}, err
	}
	return updated, nil
}

// DeletePoll removes a poll with all its responses and slots
func (s *Store) DeletePoll(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, s.q(`
			DELETE FROM availability_slot
			WHERE response_id IN (SELECT id FROM poll_response WHERE poll_id = ?)
		`), id)
		if err != nil {
			return fmt.Errorf("delete slots: %w", err)
		}

		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM poll_response WHERE poll_id = ?`), id); err != nil {
			return fmt.Errorf("delete responses: %w", err)
		}

		res, err := tx.ExecContext(ctx, s.q(`DELETE FROM poll WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("delete poll: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete poll: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}
