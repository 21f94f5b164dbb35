// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-meet/models"
	"github.com/danielhkuo/quickly-meet/slotgrid"
)

var (
	nine       = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	nineThirty = nine.Add(30 * time.Minute)
	ten        = nine.Add(time.Hour)
)

func slot(start time.Time, level int) models.AvailabilitySlot {
	return models.AvailabilitySlot{SlotStart: start, SlotEnd: start.Add(30 * time.Minute), AvailabilityLevel: level}
}

func named(name string, slots ...models.AvailabilitySlot) models.PollResponse {
	r := models.PollResponse{Availabilities: slots}
	if name != "" {
		r.RespondentName = &name
	}
	return r
}

func TestAggregateTwoResponses(t *testing.T) {
	responses := []models.PollResponse{
		named("R1", slot(nine, models.LevelAvailable), slot(nineThirty, models.LevelAvailable)),
		named("R2", slot(nine, models.LevelIfNeeded)),
	}

	aggs := Aggregate(responses, nil)
	require.Len(t, aggs, 2)

	assert.True(t, aggs[0].SlotStart.Equal(nine))
	assert.Equal(t, 1, aggs[0].AvailableCount)
	assert.Equal(t, 1, aggs[0].IfNeededCount)
	assert.Equal(t, 2, aggs[0].TotalCount)
	assert.Equal(t, []string{"R1", "R2"}, aggs[0].Respondents)

	assert.True(t, aggs[1].SlotStart.Equal(nineThirty))
	assert.Equal(t, 1, aggs[1].AvailableCount)
	assert.Equal(t, 0, aggs[1].IfNeededCount)
	assert.Equal(t, 1, aggs[1].TotalCount)

	best := BestSlots(aggs, 0, len(responses))
	require.Len(t, best, 2)
	assert.True(t, best[0].SlotStart.Equal(nine))
	assert.True(t, best[1].SlotStart.Equal(nineThirty))
}

func TestAggregateAnonymousAndDuplicates(t *testing.T) {
	responses := []models.PollResponse{
		named("", slot(nine, models.LevelAvailable), slot(nine, models.LevelIfNeeded)),
	}

	aggs := Aggregate(responses, nil)
	require.Len(t, aggs, 1)
	assert.Equal(t, 0, aggs[0].AvailableCount)
	assert.Equal(t, 1, aggs[0].IfNeededCount)
	assert.Equal(t, []string{models.AnonymousName}, aggs[0].Respondents)
}

func TestAggregateSkipsSlotsOutsideGrid(t *testing.T) {
	grid, err := slotgrid.Generate(nine, ten, 30, "UTC")
	require.NoError(t, err)

	responses := []models.PollResponse{
		named("R1", slot(nine, models.LevelAvailable), slot(ten, models.LevelAvailable)),
	}

	aggs := Aggregate(responses, grid.Has)
	require.Len(t, aggs, 1)
	assert.True(t, aggs[0].SlotStart.Equal(nine))
}

func TestAggregateTimezoneIndependent(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	responses := []models.PollResponse{
		named("utc", slot(nine, models.LevelAvailable)),
		named("tokyo", slot(nine.In(tokyo), models.LevelAvailable)),
	}

	aggs := Aggregate(responses, nil)
	require.Len(t, aggs, 1)
	assert.Equal(t, 2, aggs[0].AvailableCount)
}

func TestAggregateEmpty(t *testing.T) {
	aggs := Aggregate(nil, nil)
	require.NotNil(t, aggs)
	require.Empty(t, aggs)
}

func TestAggregationConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	grid, err := slotgrid.Generate(nine, nine.Add(48*time.Hour), 30, "UTC")
	require.NoError(t, err)

	responses := make([]models.PollResponse, 25)
	selected := 0
	for i := range responses {
		var slots []models.AvailabilitySlot
		for _, s := range grid.Slots {
			if rng.Intn(3) == 0 {
				slots = append(slots, models.AvailabilitySlot{
					SlotStart:         s.Start,
					SlotEnd:           s.End,
					AvailabilityLevel: 1 + rng.Intn(2),
				})
			}
		}
		selected += len(slots)
		responses[i] = named("", slots...)
	}

	aggs := Aggregate(responses, grid.Has)
	sum := 0
	for _, a := range aggs {
		assert.Equal(t, a.AvailableCount+a.IfNeededCount, a.TotalCount)
		assert.LessOrEqual(t, a.TotalCount, len(responses))
		assert.Len(t, a.Respondents, a.TotalCount)
		sum += a.TotalCount
	}
	assert.Equal(t, selected, sum)
}
