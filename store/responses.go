// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-meet/models"
)

// PollGuard is checked against the locked poll before a response write.
// A non-nil error aborts the transaction and is returned as is.
type PollGuard func(p models.Poll) error

// ResponseGuard additionally sees the stored response being replaced.
type ResponseGuard func(p models.Poll, r models.PollResponse) error

const responseColumns = `id, poll_id, respondent_name, respondent_email, person_id,
	edit_token_hash, created_at, updated_at`

func scanResponse(sc scanner) (models.PollResponse, error) {
	var r models.PollResponse
	var name, email sql.NullString
	var person sql.NullInt64

	if err := sc.Scan(&r.ID, &r.PollID, &name, &email, &person,
		&r.EditTokenHash, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return models.PollResponse{}, err
	}

	if name.Valid {
		r.RespondentName = &name.String
	}
	if email.Valid {
		r.RespondentEmail = &email.String
	}
	if person.Valid {
		r.PersonID = &person.Int64
	}
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	r.Availabilities = []models.AvailabilitySlot{}
	return r, nil
}

func (s *Store) insertSlots(ctx context.Context, tx *sql.Tx, responseID int64, slots []models.AvailabilitySlot) error {
	if len(slots) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, s.q(`
		INSERT INTO availability_slot (response_id, slot_start, slot_end, availability_level)
		VALUES (?, ?, ?, ?)
	`))
	if err != nil {
		return fmt.Errorf("prepare slot insert: %w", err)
	}
	defer stmt.Close()

	for _, slot := range slots {
		_, err := stmt.ExecContext(ctx, responseID, slot.SlotStart.UTC(), slot.SlotEnd.UTC(), slot.AvailabilityLevel)
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		if err != nil {
			return fmt.Errorf("insert slot: %w", err)
		}
	}
	return nil
}

// CreateResponse stores r and its slots in one transaction.
// guard runs against the locked poll first.
func (s *Store) CreateResponse(ctx context.Context, pollID int64, guard PollGuard, r *models.PollResponse) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		p, err := s.lockPoll(ctx, tx, pollID)
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(p); err != nil {
				return err
			}
		}

		now := s.now()
		var person sql.NullInt64
		if r.PersonID != nil {
			person = sql.NullInt64{Int64: *r.PersonID, Valid: true}
		}

		err = tx.QueryRowContext(ctx, s.q(`
			INSERT INTO poll_response (poll_id, respondent_name, respondent_email, person_id,
				edit_token_hash, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING id
		`), pollID, nullString(r.RespondentName), nullString(r.RespondentEmail), person,
			r.EditTokenHash, now, now).Scan(&r.ID)
		if err != nil {
			return fmt.Errorf("insert response: %w", err)
		}

		if err := s.insertSlots(ctx, tx, r.ID, r.Availabilities); err != nil {
			return err
		}

		r.PollID = pollID
		r.CreatedAt = now
		r.UpdatedAt = now
		return nil
	})
}

// ReplaceAvailabilities swaps a response's entire slot set atomically.
// Concurrent replacements of the same response are last writer wins.
func (s *Store) ReplaceAvailabilities(ctx context.Context, pollID, responseID int64, guard ResponseGuard, slots []models.AvailabilitySlot) (models.PollResponse, error) {
	var updated models.PollResponse

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		p, err := s.lockPoll(ctx, tx, pollID)
		if err != nil {
			return err
		}

		r, err := scanResponse(tx.QueryRowContext(ctx, s.q(`
			SELECT `+responseColumns+` FROM poll_response WHERE id = ? AND poll_id = ?
		`), responseID, pollID))
		if err != nil {
			return notFound(err)
		}

		if guard != nil {
			if err := guard(p, r); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM availability_slot WHERE response_id = ?`), responseID); err != nil {
			return fmt.Errorf("clear slots: %w", err)
		}
		if err := s.insertSlots(ctx, tx, responseID, slots); err != nil {
			return err
		}

		r.UpdatedAt = s.now()
		if _, err := tx.ExecContext(ctx, s.q(`UPDATE poll_response SET updated_at = ? WHERE id = ?`), r.UpdatedAt, responseID); err != nil {
			return fmt.Errorf("touch response: %w", err)
		}

		r.Availabilities = append([]models.AvailabilitySlot{}, slots...)
		updated = r
		return nil
	})
	if err != nil {
		return models.PollResponse{}, err
	}
	return updated, nil
}

// GetResponse loads one response of a poll with its slots
func (s *Store) GetResponse(ctx context.Context, pollID, responseID int64) (models.PollResponse, error) {
	r, err := scanResponse(s.conn.QueryRowContext(ctx, s.q(`
		SELECT `+responseColumns+` FROM poll_response WHERE id = ? AND poll_id = ?
	`), responseID, pollID))
	if err != nil {
		return models.PollResponse{}, notFound(err)
	}

	slots, err := s.loadSlots(ctx, s.conn, `
		SELECT response_id, slot_start, slot_end, availability_level
		FROM availability_slot
		WHERE response_id = ?
		ORDER BY slot_start
	`, responseID)
	if err != nil {
		return models.PollResponse{}, err
	}
	r.Availabilities = append(r.Availabilities, slots[responseID]...)
	return r, nil
}

// ListResponses loads every response of a poll with its slots, oldest first
func (s *Store) ListResponses(ctx context.Context, pollID int64) ([]models.PollResponse, error) {
	rows, err := s.conn.QueryContext(ctx, s.q(`
		SELECT `+responseColumns+` FROM poll_response WHERE poll_id = ? ORDER BY id
	`), pollID)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}

	responses := []models.PollResponse{}
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan response: %w", err)
		}
		responses = append(responses, r)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("iterate responses: %w", err)
	}

	if len(responses) == 0 {
		return responses, nil
	}

	slots, err := s.loadSlots(ctx, s.conn, `
		SELECT a.response_id, a.slot_start, a.slot_end, a.availability_level
		FROM availability_slot a
		JOIN poll_response r ON r.id = a.response_id
		WHERE r.poll_id = ?
		ORDER BY a.response_id, a.slot_start
	`, pollID)
	if err != nil {
		return nil, err
	}

	for i := range responses {
		responses[i].Availabilities = append(responses[i].Availabilities, slots[responses[i].ID]...)
	}
	return responses, nil
}

func (s *Store) loadSlots(ctx context.Context, q querier, query string, args ...any) (map[int64][]models.AvailabilitySlot, error) {
	rows, err := q.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query slots: %w", err)
	}
	defer rows.Close()

	byResponse := make(map[int64][]models.AvailabilitySlot)
	for rows.Next() {
		var responseID int64
		var slot models.AvailabilitySlot
		if err := rows.Scan(&responseID, &slot.SlotStart, &slot.SlotEnd, &slot.AvailabilityLevel); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slot.SlotStart = slot.SlotStart.UTC()
		slot.SlotEnd = slot.SlotEnd.UTC()
		byResponse[responseID] = append(byResponse[responseID], slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}
	return byResponse, nil
}

// ResponseStats returns how many responses a poll has and when the
// latest one was written.
func (s *Store) ResponseStats(ctx context.Context, pollID int64) (int, *time.Time, error) {
	rows, err := s.conn.QueryContext(ctx, s.q(`SELECT updated_at FROM poll_response WHERE poll_id = ?`), pollID)
	if err != nil {
		return 0, nil, fmt.Errorf("query response stats: %w", err)
	}
	defer rows.Close()

	count := 0
	var last *time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return 0, nil, fmt.Errorf("scan response stats: %w", err)
		}
		count++
		if last == nil || t.After(*last) {
			t = t.UTC()
			last = &t
		}
	}
	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("iterate response stats: %w", err)
	}
	return count, last, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
