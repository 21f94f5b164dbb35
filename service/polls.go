// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-meet/auth"
	"github.com/danielhkuo/quickly-meet/lifecycle"
	"github.com/danielhkuo/quickly-meet/models"
	"github.com/danielhkuo/quickly-meet/slotgrid"
	"github.com/danielhkuo/quickly-meet/store"
)

// CreatePoll validates the window and stores a new open poll.
// The admin key in the result is the only copy; it is derived, not stored.
func (s *PollService) CreatePoll(ctx context.Context, req models.CreatePollRequest) (models.CreatePollResponse, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validateStruct(req); err != nil {
		return models.CreatePollResponse{}, err
	}

	if req.Timezone == "" {
		req.Timezone = "UTC"
	}
	if _, err := slotgrid.LoadZone(req.Timezone); err != nil {
		return models.CreatePollResponse{}, err
	}

	start, end := req.DatetimeStart.UTC(), req.DatetimeEnd.UTC()
	if err := slotgrid.CheckWindow(start, end, req.SlotDurationMinutes); err != nil {
		return models.CreatePollResponse{}, err
	}

	poll := models.Poll{
		Title:               req.Title,
		Description:         req.Description,
		Status:              lifecycle.Open,
		DatetimeStart:       start,
		DatetimeEnd:         end,
		SlotDurationMinutes: req.SlotDurationMinutes,
		Timezone:            req.Timezone,
	}

	var err error
	for attempt := 0; attempt < slugAttempts; attempt++ {
		poll.Slug, err = auth.NewShareSlug(s.cfg.PollSlugSalt)
		if err != nil {
			return models.CreatePollResponse{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		err = s.store.CreatePoll(ctx, &poll)
		if !errors.Is(err, store.ErrDuplicate) {
			break
		}
		slog.Warn("share slug collision, retrying", "slug", poll.Slug, "attempt", attempt+1)
	}
	if err != nil {
		slog.Error("failed to insert poll", "error", err)
		return models.CreatePollResponse{}, translate(err)
	}

	slog.Info("poll created", "poll_id", poll.ID, "slug", poll.Slug,
		"slots", slotgrid.SlotCount(start, end, poll.SlotDurationMinutes))

	return models.CreatePollResponse{
		Poll:     poll,
		AdminKey: auth.GenerateAdminKey(poll.ID, s.cfg.AdminKeySalt),
		ShareURL: s.cfg.ShareURL(poll.Slug),
	}, nil
}

// ListPolls returns all polls, newest first. status filters when set.
func (s *PollService) ListPolls(ctx context.Context, status string) ([]models.Poll, error) {
	var filter lifecycle.Status
	if status != "" {
		st, err := lifecycle.ParseStatus(status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		filter = st
	}

	polls, err := s.store.ListPolls(ctx, filter)
	if err != nil {
		slog.Error("failed to list polls", "error", err)
		return nil, translate(err)
	}
	return polls, nil
}

// GetPoll returns a poll and its grid in tz, or the poll's own timezone
func (s *PollService) GetPoll(ctx context.Context, slug, tz string) (models.PollView, error) {
	poll, err := s.pollBySlug(ctx, slug)
	if err != nil {
		return models.PollView{}, err
	}

	grid, err := s.gridFor(poll, tz)
	if err != nil {
		return models.PollView{}, err
	}

	return models.PollView{Poll: poll, Grid: grid}, nil
}

// UpdatePoll applies a partial update authorized by the admin key.
// Every check runs against the locked row before anything is written.
func (s *PollService) UpdatePoll(ctx context.Context, pollID int64, adminKey string, req models.UpdatePollRequest) (models.Poll, error) {
	if err := auth.ValidateAdminKey(pollID, adminKey, s.cfg.AdminKeySalt); err != nil {
		return models.Poll{}, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
	}
	if err := s.validateStruct(req); err != nil {
		return models.Poll{}, err
	}

	var target *lifecycle.Status
	if req.Status != nil {
		st, err := lifecycle.ParseStatus(*req.Status)
		if err != nil {
			return models.Poll{}, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		target = &st
	}
	if req.Timezone != nil {
		if _, err := slotgrid.LoadZone(*req.Timezone); err != nil {
			return models.Poll{}, err
		}
	}

	var before models.Poll
	updated, err := s.store.UpdatePoll(ctx, pollID, func(p *models.Poll) error {
		before = *p
		return applyUpdate(p, req, target)
	})
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) && !isCallerError(err) {
			slog.Error("failed to update poll", "poll_id", pollID, "error", err)
		}
		return models.Poll{}, translate(err)
	}

	if before.Status != updated.Status {
		s.metrics.RecordTransition(string(before.Status), string(updated.Status))
		slog.Info("poll status changed", "poll_id", pollID, "from", before.Status, "to", updated.Status)
	}
	if windowChanged(before, updated) {
		s.grids.InvalidateWindow(before.DatetimeStart, before.DatetimeEnd, before.SlotDurationMinutes)
		slog.Info("poll window changed", "poll_id", pollID,
			"start", updated.DatetimeStart, "end", updated.DatetimeEnd,
			"duration", updated.SlotDurationMinutes)
	}

	return updated, nil
}

func applyUpdate(p *models.Poll, req models.UpdatePollRequest, target *lifecycle.Status) error {
	if p.Status.Terminal() {
		return fmt.Errorf("%w: poll is %s", lifecycle.ErrInvalidTransition, p.Status)
	}

	// Window first, so a rejected duration change never gets as far as a
	// status change.
	start, end, duration := p.DatetimeStart, p.DatetimeEnd, p.SlotDurationMinutes
	if req.DatetimeStart != nil {
		start = req.DatetimeStart.UTC()
	}
	if req.DatetimeEnd != nil {
		end = req.DatetimeEnd.UTC()
	}
	if req.SlotDurationMinutes != nil {
		duration = *req.SlotDurationMinutes
	}
	if duration != p.SlotDurationMinutes && p.ResponseCount > 0 {
		return fmt.Errorf("%w: slot_duration_minutes is fixed once the poll has responses", ErrImmutableField)
	}
	if err := slotgrid.CheckWindow(start, end, duration); err != nil {
		return err
	}
	p.DatetimeStart, p.DatetimeEnd, p.SlotDurationMinutes = start, end, duration

	switch {
	case target != nil && *target == p.Status && *target != lifecycle.Finalized:
		// Already there
	case target != nil:
		if err := lifecycle.Transition(p.Status, *target, req.FinalizedTime); err != nil {
			return err
		}
		p.Status = *target
		if *target == lifecycle.Finalized {
			t := req.FinalizedTime.UTC()
			p.FinalizedTime = &t
		} else {
			p.FinalizedTime = nil
		}
	case req.FinalizedTime != nil:
		if p.Status != lifecycle.Finalized {
			return fmt.Errorf("%w: finalized_time requires status finalized", lifecycle.ErrInvalidTransition)
		}
		t := req.FinalizedTime.UTC()
		p.FinalizedTime = &t
	}
	if p.FinalizedTime != nil && (p.FinalizedTime.Before(p.DatetimeStart) || !p.FinalizedTime.Before(p.DatetimeEnd)) {
		return fmt.Errorf("%w: finalized_time must fall inside the poll window", ErrValidation)
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Timezone != nil {
		p.Timezone = *req.Timezone
	}
	return nil
}

func windowChanged(a, b models.Poll) bool {
	return !a.DatetimeStart.Equal(b.DatetimeStart) ||
		!a.DatetimeEnd.Equal(b.DatetimeEnd) ||
		a.SlotDurationMinutes != b.SlotDurationMinutes
}

// DeletePoll removes a poll and everything under it
func (s *PollService) DeletePoll(ctx context.Context, pollID int64, adminKey string) (models.DeletePollResponse, error) {
	if err := auth.ValidateAdminKey(pollID, adminKey, s.cfg.AdminKeySalt); err != nil {
		return models.DeletePollResponse{}, err
	}

	poll, err := s.store.GetPollByID(ctx, pollID)
	if err != nil {
		return models.DeletePollResponse{}, translate(err)
	}

	if err := s.store.DeletePoll(ctx, pollID); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("failed to delete poll", "poll_id", pollID, "error", err)
		}
		return models.DeletePollResponse{}, translate(err)
	}
	s.grids.InvalidateWindow(poll.DatetimeStart, poll.DatetimeEnd, poll.SlotDurationMinutes)

	slog.Info("poll deleted", "poll_id", pollID, "responses", poll.ResponseCount)
	return models.DeletePollResponse{Deleted: true, PollID: pollID}, nil
}

// GetPreview returns a lightweight summary for link previews
func (s *PollService) GetPreview(ctx context.Context, slug string) (models.PollPreviewResponse, error) {
	poll, err := s.pollBySlug(ctx, slug)
	if err != nil {
		return models.PollPreviewResponse{}, err
	}

	count, last, err := s.store.ResponseStats(ctx, poll.ID)
	if err != nil {
		slog.Error("failed to load response stats", "poll_id", poll.ID, "error", err)
		return models.PollPreviewResponse{}, translate(err)
	}

	preview := models.PollPreviewResponse{
		Title:          poll.Title,
		Status:         poll.Status,
		SlotCount:      slotgrid.SlotCount(poll.DatetimeStart, poll.DatetimeEnd, poll.SlotDurationMinutes),
		ResponseCount:  count,
		LastResponseAt: last,
	}
	if last != nil {
		preview.LastResponseAgo = humanizeSince(*last)
	}
	return preview, nil
}

func (s *PollService) pollBySlug(ctx context.Context, slug string) (models.Poll, error) {
	poll, err := s.store.GetPollBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("failed to load poll", "slug", slug, "error", err)
		}
		return models.Poll{}, translate(err)
	}
	return poll, nil
}

// gridFor returns the poll's grid in tz, falling back to the poll's zone
func (s *PollService) gridFor(poll models.Poll, tz string) (*slotgrid.Grid, error) {
	if tz == "" {
		tz = poll.Timezone
	}
	return s.grids.Get(poll.DatetimeStart, poll.DatetimeEnd, poll.SlotDurationMinutes, tz)
}

// now is swapped in tests
var now = time.Now

func humanizeSince(t time.Time) string {
	return humanize.RelTime(t, now(), "ago", "from now")
}
