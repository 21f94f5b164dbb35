// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/danielhkuo/quickly-meet/auth"
	"github.com/danielhkuo/quickly-meet/lifecycle"
	"github.com/danielhkuo/quickly-meet/models"
	"github.com/danielhkuo/quickly-meet/slotgrid"
	"github.com/danielhkuo/quickly-meet/store"
)

// checkSlots enforces the window alignment invariant and rejects
// duplicate slot starts. Returns the slots normalized to UTC.
func checkSlots(poll models.Poll, slots []models.AvailabilitySlot) ([]models.AvailabilitySlot, error) {
	out := make([]models.AvailabilitySlot, 0, len(slots))
	seen := make(map[string]struct{}, len(slots))

	for _, slot := range slots {
		start, end := slot.SlotStart.UTC(), slot.SlotEnd.UTC()
		if err := slotgrid.ValidateSlot(poll.DatetimeStart, poll.DatetimeEnd, poll.SlotDurationMinutes, start, end); err != nil {
			return nil, err
		}

		key := slotgrid.SlotKey(start)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %s appears twice", slotgrid.ErrInvalidSlot, key)
		}
		seen[key] = struct{}{}

		out = append(out, models.AvailabilitySlot{
			SlotStart:         start,
			SlotEnd:           end,
			AvailabilityLevel: slot.AvailabilityLevel,
		})
	}
	return out, nil
}

func requireOpen(p models.Poll) error {
	if p.Status != lifecycle.Open {
		return fmt.Errorf("%w: poll is %s", ErrPollNotOpen, p.Status)
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// SubmitResponse stores a new response against an open poll and returns
// the edit token. The token is shown once; only its hash is kept.
func (s *PollService) SubmitResponse(ctx context.Context, slug string, req models.SubmitResponseRequest) (models.SubmitResponseResponse, error) {
	req.RespondentName = trimmed(req.RespondentName)
	req.RespondentEmail = trimmed(req.RespondentEmail)
	if err := s.validateStruct(req); err != nil {
		return models.SubmitResponseResponse{}, err
	}

	poll, err := s.pollBySlug(ctx, slug)
	if err != nil {
		return models.SubmitResponseResponse{}, err
	}
	if err := requireOpen(poll); err != nil {
		return models.SubmitResponseResponse{}, err
	}
	slots, err := checkSlots(poll, req.Availabilities)
	if err != nil {
		return models.SubmitResponseResponse{}, err
	}

	token, err := auth.GenerateEditToken()
	if err != nil {
		slog.Error("failed to generate edit token", "error", err)
		return models.SubmitResponseResponse{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp := models.PollResponse{
		RespondentName:  req.RespondentName,
		RespondentEmail: req.RespondentEmail,
		PersonID:        req.PersonID,
		Availabilities:  slots,
		EditTokenHash:   auth.HashEditToken(token, s.cfg.PollSlugSalt),
	}

	// The poll may have been closed or resized since it was read
	guard := func(locked models.Poll) error {
		if err := requireOpen(locked); err != nil {
			return err
		}
		_, err := checkSlots(locked, slots)
		return err
	}

	if err := s.store.CreateResponse(ctx, poll.ID, guard, &resp); err != nil {
		if !errors.Is(err, store.ErrNotFound) && !isCallerError(err) {
			slog.Error("failed to insert response", "poll_id", poll.ID, "error", err)
		}
		return models.SubmitResponseResponse{}, translate(err)
	}

	s.metrics.RecordResponse("created")
	slog.Info("response submitted", "poll_id", poll.ID, "response_id", resp.ID, "slots", len(slots))

	return models.SubmitResponseResponse{ResponseID: resp.ID, EditToken: token}, nil
}

// GetResponse returns a respondent's own response given its edit token
func (s *PollService) GetResponse(ctx context.Context, slug string, responseID int64, editToken string) (models.PollResponse, error) {
	poll, err := s.pollBySlug(ctx, slug)
	if err != nil {
		return models.PollResponse{}, err
	}

	resp, err := s.store.GetResponse(ctx, poll.ID, responseID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("failed to load response", "response_id", responseID, "error", err)
		}
		return models.PollResponse{}, translate(err)
	}

	if err := auth.VerifyEditToken(editToken, resp.EditTokenHash, s.cfg.PollSlugSalt); err != nil {
		return models.PollResponse{}, ErrForbidden
	}
	return resp, nil
}

// UpdateResponse replaces a response's slots. The edit token is the only
// authorization. Two concurrent updates of one response are last writer
// wins; there is no version check.
func (s *PollService) UpdateResponse(ctx context.Context, slug string, responseID int64, editToken string, req models.UpdateResponseRequest) (models.UpdateResponseResponse, error) {
	if err := s.validateStruct(req); err != nil {
		return models.UpdateResponseResponse{}, err
	}

	poll, err := s.pollBySlug(ctx, slug)
	if err != nil {
		return models.UpdateResponseResponse{}, err
	}

	slots, err := checkSlots(poll, req.Availabilities)
	if err != nil {
		return models.UpdateResponseResponse{}, err
	}

	guard := func(locked models.Poll, stored models.PollResponse) error {
		if err := auth.VerifyEditToken(editToken, stored.EditTokenHash, s.cfg.PollSlugSalt); err != nil {
			return ErrForbidden
		}
		if err := requireOpen(locked); err != nil {
			return err
		}
		_, err := checkSlots(locked, slots)
		return err
	}

	updated, err := s.store.ReplaceAvailabilities(ctx, poll.ID, responseID, guard, slots)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) && !isCallerError(err) {
			slog.Error("failed to update response", "response_id", responseID, "error", err)
		}
		return models.UpdateResponseResponse{}, translate(err)
	}

	s.metrics.RecordResponse("updated")
	slog.Info("response updated", "poll_id", poll.ID, "response_id", responseID, "slots", len(updated.Availabilities))

	return models.UpdateResponseResponse{ResponseID: responseID, Status: "updated"}, nil
}
