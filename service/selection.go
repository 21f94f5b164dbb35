// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"fmt"

	"github.com/danielhkuo/quickly-meet/models"
	"github.com/danielhkuo/quickly-meet/selection"
)

// ReplaySelection runs recorded gesture events through a selection
// machine on the poll's grid and returns the resulting slots. Thin
// clients use it instead of tracking drag state themselves.
func (s *PollService) ReplaySelection(ctx context.Context, slug string, req models.SelectionRequest) (models.SelectionResponse, error) {
	poll, err := s.pollBySlug(ctx, slug)
	if err != nil {
		return models.SelectionResponse{}, err
	}

	grid, err := s.gridFor(poll, "")
	if err != nil {
		return models.SelectionResponse{}, err
	}

	m := selection.New(grid.Has)
	if req.Level != 0 {
		if err := m.SetLevel(req.Level); err != nil {
			return models.SelectionResponse{}, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	m.Load(req.Selected)

	if err := selection.Replay(m, req.Events); err != nil {
		return models.SelectionResponse{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	selected := m.Selected()
	slots := make([]models.AvailabilitySlot, 0, len(selected))
	for _, key := range m.Keys() {
		ts, ok := grid.Slot(key)
		if !ok {
			continue
		}
		slots = append(slots, models.AvailabilitySlot{
			SlotStart:         ts.Start,
			SlotEnd:           ts.End,
			AvailabilityLevel: selected[key],
		})
	}

	return models.SelectionResponse{
		State:          m.State().String(),
		Availabilities: slots,
	}, nil
}
