// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package slotgrid

import (
	"fmt"
	"time"
)

const (
	// DateKeyLayout is the layout of a local calendar date key.
	DateKeyLayout = "2006-01-02"
	// TimeKeyLayout is the layout of a local time-of-day key. Zero padded,
	// so keys sort lexicographically.
	TimeKeyLayout = "15:04"
)

// LoadZone resolves an IANA timezone name. An empty name means UTC.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// ToLocal returns the local date and time-of-day keys of t in loc.
func ToLocal(t time.Time, loc *time.Location) (dateKey, timeKey string) {
	local := t.In(loc)
	return local.Format(DateKeyLayout), local.Format(TimeKeyLayout)
}

// ToUTC returns the UTC instant of hourOfDay:00 on dateKey in loc.
// Skipped or repeated local hours resolve the way time.Date does.
func ToUTC(dateKey string, hourOfDay int, loc *time.Location) (time.Time, error) {
	if hourOfDay < 0 || hourOfDay > 23 {
		return time.Time{}, fmt.Errorf("hour of day out of range: %d", hourOfDay)
	}
	day, err := time.ParseInLocation(DateKeyLayout, dateKey, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date key %q: %w", dateKey, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hourOfDay, 0, 0, 0, loc).UTC(), nil
}

// ParseDateKey parses a date key as midnight UTC. Used for chronological
// ordering only.
func ParseDateKey(dateKey string) (time.Time, error) {
	return time.Parse(DateKeyLayout, dateKey)
}

// SlotKey is the timezone-independent identity of a slot starting at t.
func SlotKey(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
