// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package slotgrid turns a poll's UTC window into discrete time slots.

# Slot Identity

A slot is a half-open UTC interval [start, start+duration) aligned to the
poll's start instant. Its key is the RFC 3339 UTC form of the start:

	slotgrid.SlotKey(t) // "2024-01-01T09:00:00Z"

Keys never depend on the display timezone, so responses painted in
Europe/Berlin and Asia/Tokyo aggregate into the same buckets.

# Grid

Generate walks the window in steps of the slot duration and groups each
slot by its local date and time-of-day in the display timezone:

	grid, err := slotgrid.Generate(start, end, 30, "America/New_York")

The result is a rectangular matrix (Dates × Times). Cells with no slot are
nil rather than omitted, which happens at the edges of the window and on
DST transition days.

# Cache

Cache memoizes grids by (window, duration, timezone). It is owned by the
service and invalidated explicitly when a poll's window changes.
*/
package slotgrid
