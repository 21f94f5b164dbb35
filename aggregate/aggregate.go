// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package aggregate folds poll responses into per-slot counts and ranks
// the result.
package aggregate

import (
	"sort"

	"github.com/danielhkuo/quickly-meet/models"
	"github.com/danielhkuo/quickly-meet/slotgrid"
)

// Aggregate tallies responses per slot_start. valid filters slot keys
// against the poll's current grid; nil accepts every key.
//
// A response counts at most once per slot. When a response lists the same
// slot twice, its last level wins. Slots nobody marked are absent from the
// output, which is sorted by slot_start.
func Aggregate(responses []models.PollResponse, valid func(key string) bool) []models.SlotAggregation {
	buckets := make(map[string]*models.SlotAggregation)

	for _, resp := range responses {
		name := resp.DisplayName()
		for _, slot := range dedupe(resp.Availabilities) {
			key := slotgrid.SlotKey(slot.SlotStart)
			if valid != nil && !valid(key) {
				continue
			}

			b, ok := buckets[key]
			if !ok {
				b = &models.SlotAggregation{
					SlotStart:   slot.SlotStart.UTC(),
					SlotEnd:     slot.SlotEnd.UTC(),
					Respondents: []string{},
				}
				buckets[key] = b
			}

			if slot.AvailabilityLevel == models.LevelAvailable {
				b.AvailableCount++
			} else {
				b.IfNeededCount++
			}
			b.TotalCount = b.AvailableCount + b.IfNeededCount
			b.Respondents = append(b.Respondents, name)
		}
	}

	out := make([]models.SlotAggregation, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SlotStart.Before(out[j].SlotStart)
	})
	return out
}

// dedupe keeps one entry per slot_start, in first-seen order, carrying the
// last-seen level.
func dedupe(slots []models.AvailabilitySlot) []models.AvailabilitySlot {
	if len(slots) < 2 {
		return slots
	}
	index := make(map[string]int, len(slots))
	out := make([]models.AvailabilitySlot, 0, len(slots))
	for _, s := range slots {
		key := slotgrid.SlotKey(s.SlotStart)
		if i, ok := index[key]; ok {
			out[i].AvailabilityLevel = s.AvailabilityLevel
			continue
		}
		index[key] = len(out)
		out = append(out, s)
	}
	return out
}
