// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package slotgrid

import "errors"

var (
	ErrInvalidRange    = errors.New("start must be before end")
	ErrInvalidDuration = errors.New("slot duration must be 15, 30 or 60 minutes")
	ErrInvalidTimezone = errors.New("unknown timezone")
	ErrInvalidSlot     = errors.New("slot is not aligned to the poll window")
)
