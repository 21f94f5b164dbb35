// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package slotgrid

import (
	"fmt"
	"sort"
	"time"
)

// SupportedDurations lists the slot lengths a poll may use, in minutes.
var SupportedDurations = []int{15, 30, 60}

// MaxSlots caps the number of slots in one window: six weeks of 15 minute
// slots.
const MaxSlots = 42 * 24 * 4

// TimeSlot is one cell of the grid.
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Key   string    `json:"key"`
}

// Grid is the days × times-of-day matrix of a poll window in one display
// timezone. Cells[i][j] is the slot at Dates[i], Times[j], or nil.
type Grid struct {
	Timezone string        `json:"timezone"`
	Duration int           `json:"slot_duration_minutes"`
	Dates    []string      `json:"dates"`
	Times    []string      `json:"times"`
	Cells    [][]*TimeSlot `json:"cells"`

	// Slots holds every slot in chronological order, including any that
	// share a cell with an earlier slot on a DST fall-back day.
	Slots []TimeSlot `json:"-"`

	index map[string]int
}

// ValidDuration reports whether minutes is a supported slot length.
func ValidDuration(minutes int) bool {
	for _, d := range SupportedDurations {
		if d == minutes {
			return true
		}
	}
	return false
}

// SlotCount is the number of whole slots in [start, end).
func SlotCount(start, end time.Time, durationMinutes int) int {
	if durationMinutes <= 0 || !start.Before(end) {
		return 0
	}
	return int(end.Sub(start) / (time.Duration(durationMinutes) * time.Minute))
}

// CheckWindow validates a poll window and slot duration.
func CheckWindow(start, end time.Time, durationMinutes int) error {
	if !start.Before(end) {
		return ErrInvalidRange
	}
	if !ValidDuration(durationMinutes) {
		return fmt.Errorf("%w: got %d", ErrInvalidDuration, durationMinutes)
	}
	if n := SlotCount(start, end, durationMinutes); n > MaxSlots {
		return fmt.Errorf("%w: window holds %d slots, at most %d allowed", ErrInvalidRange, n, MaxSlots)
	}
	return nil
}

// Generate builds the slot grid for [start, end) in the named timezone.
func Generate(start, end time.Time, durationMinutes int, tz string) (*Grid, error) {
	if err := CheckWindow(start, end, durationMinutes); err != nil {
		return nil, err
	}
	loc, err := LoadZone(tz)
	if err != nil {
		return nil, err
	}
	if tz == "" {
		tz = "UTC"
	}

	step := time.Duration(durationMinutes) * time.Minute
	start, end = start.UTC(), end.UTC()

	type cellKey struct{ date, time string }
	cells := make(map[cellKey]int)
	dateSet := make(map[string]struct{})
	timeSet := make(map[string]struct{})

	g := &Grid{
		Timezone: tz,
		Duration: durationMinutes,
		Slots:    make([]TimeSlot, 0, SlotCount(start, end, durationMinutes)),
		index:    make(map[string]int),
	}

	for t := start; !t.Add(step).After(end); t = t.Add(step) {
		slot := TimeSlot{Start: t, End: t.Add(step), Key: SlotKey(t)}
		g.index[slot.Key] = len(g.Slots)
		g.Slots = append(g.Slots, slot)

		dateKey, timeKey := ToLocal(t, loc)
		dateSet[dateKey] = struct{}{}
		timeSet[timeKey] = struct{}{}
		// A repeated local hour keeps the earlier instant in the cell.
		if _, taken := cells[cellKey{dateKey, timeKey}]; !taken {
			cells[cellKey{dateKey, timeKey}] = len(g.Slots) - 1
		}
	}

	g.Dates = sortedDates(dateSet)
	g.Times = make([]string, 0, len(timeSet))
	for k := range timeSet {
		g.Times = append(g.Times, k)
	}
	sort.Strings(g.Times)

	g.Cells = make([][]*TimeSlot, len(g.Dates))
	for i, d := range g.Dates {
		row := make([]*TimeSlot, len(g.Times))
		for j, tk := range g.Times {
			if idx, ok := cells[cellKey{d, tk}]; ok {
				row[j] = &g.Slots[idx]
			}
		}
		g.Cells[i] = row
	}

	return g, nil
}

func sortedDates(set map[string]struct{}) []string {
	dates := make([]string, 0, len(set))
	for k := range set {
		dates = append(dates, k)
	}
	sort.Slice(dates, func(i, j int) bool {
		a, errA := ParseDateKey(dates[i])
		b, errB := ParseDateKey(dates[j])
		if errA != nil || errB != nil {
			return dates[i] < dates[j]
		}
		return a.Before(b)
	})
	return dates
}

// Len returns the number of slots in the grid.
func (g *Grid) Len() int {
	return len(g.Slots)
}

// Has reports whether key identifies a slot of this grid.
func (g *Grid) Has(key string) bool {
	_, ok := g.index[key]
	return ok
}

// Slot returns the slot with the given key.
func (g *Grid) Slot(key string) (TimeSlot, bool) {
	idx, ok := g.index[key]
	if !ok {
		return TimeSlot{}, false
	}
	return g.Slots[idx], true
}

// Lookup returns the cell at (dateKey, timeKey), or nil.
func (g *Grid) Lookup(dateKey, timeKey string) *TimeSlot {
	i := sort.SearchStrings(g.Times, timeKey)
	if i == len(g.Times) || g.Times[i] != timeKey {
		return nil
	}
	for r, d := range g.Dates {
		if d == dateKey {
			return g.Cells[r][i]
		}
	}
	return nil
}

// Keys returns all slot keys in chronological order.
func (g *Grid) Keys() []string {
	keys := make([]string, len(g.Slots))
	for i, s := range g.Slots {
		keys[i] = s.Key
	}
	return keys
}

// ValidateSlot checks that [slotStart, slotEnd) is exactly one slot of the
// window [start, end) cut into durationMinutes steps.
func ValidateSlot(start, end time.Time, durationMinutes int, slotStart, slotEnd time.Time) error {
	step := time.Duration(durationMinutes) * time.Minute
	switch {
	case slotStart.Before(start):
		return fmt.Errorf("%w: %s starts before the window", ErrInvalidSlot, SlotKey(slotStart))
	case slotEnd.After(end):
		return fmt.Errorf("%w: %s ends after the window", ErrInvalidSlot, SlotKey(slotStart))
	case !slotEnd.Equal(slotStart.Add(step)):
		return fmt.Errorf("%w: %s must last %d minutes", ErrInvalidSlot, SlotKey(slotStart), durationMinutes)
	case slotStart.Sub(start)%step != 0:
		return fmt.Errorf("%w: %s is off the %d minute boundary", ErrInvalidSlot, SlotKey(slotStart), durationMinutes)
	}
	return nil
}
