// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-meet/models"
)

func agg(start time.Time, available, ifNeeded int) models.SlotAggregation {
	return models.SlotAggregation{
		SlotStart:      start,
		SlotEnd:        start.Add(30 * time.Minute),
		AvailableCount: available,
		IfNeededCount:  ifNeeded,
		TotalCount:     available + ifNeeded,
	}
}

func TestRankOrdering(t *testing.T) {
	aggs := []models.SlotAggregation{
		agg(nine, 1, 0),
		agg(nine.Add(30*time.Minute), 3, 0),
		agg(nine.Add(60*time.Minute), 2, 2),
		agg(nine.Add(90*time.Minute), 2, 1),
		agg(nine.Add(-30*time.Minute), 2, 2),
	}

	ranked := Rank(aggs)
	want := []time.Time{
		nine.Add(30 * time.Minute),
		nine.Add(-30 * time.Minute), // ties with +60m, earlier wins
		nine.Add(60 * time.Minute),
		nine.Add(90 * time.Minute),
		nine,
	}
	require.Len(t, ranked, len(want))
	for i, w := range want {
		require.True(t, ranked[i].SlotStart.Equal(w), "position %d: got %s want %s", i, ranked[i].SlotStart, w)
	}

	// input untouched
	require.True(t, aggs[0].SlotStart.Equal(nine))
}

func TestRankDeterministic(t *testing.T) {
	aggs := []models.SlotAggregation{
		agg(nine.Add(90*time.Minute), 1, 1),
		agg(nine, 1, 1),
		agg(nine.Add(30*time.Minute), 1, 1),
	}
	reversed := []models.SlotAggregation{aggs[2], aggs[1], aggs[0]}

	require.Equal(t, Rank(aggs), Rank(aggs))
	require.Equal(t, Rank(aggs), Rank(reversed))
}

func TestEveryoneAvailableRanksFirst(t *testing.T) {
	aggs := []models.SlotAggregation{
		agg(nine, 2, 1),
		agg(nine.Add(time.Hour), 3, 0),
	}

	best := BestSlots(aggs, 1, 3)
	require.Len(t, best, 1)
	require.True(t, best[0].SlotStart.Equal(nine.Add(time.Hour)))
	require.True(t, best[0].Everyone)
}

func TestBestSlotsLimit(t *testing.T) {
	var aggs []models.SlotAggregation
	for i := 0; i < 12; i++ {
		aggs = append(aggs, agg(nine.Add(time.Duration(i)*30*time.Minute), i%4, 0))
	}

	require.Len(t, BestSlots(aggs, DefaultBestSlots, 4), DefaultBestSlots)
	require.Len(t, BestSlots(aggs, 0, 4), 12)
	require.Empty(t, BestSlots(nil, 5, 0))
}
