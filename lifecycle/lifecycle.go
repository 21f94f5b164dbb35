// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package lifecycle is the poll status state machine.
//
// Polls start open. Organizers may close and reopen them, finalize them on
// a chosen instant, or cancel them. Cancelled is terminal.
package lifecycle

import (
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	Open      Status = "open"
	Closed    Status = "closed"
	Finalized Status = "finalized"
	Cancelled Status = "cancelled"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// Statuses lists every status in declaration order.
var Statuses = []Status{Open, Closed, Finalized, Cancelled}

// allowed[from] lists the targets reachable from that status.
var allowed = map[Status][]Status{
	Open:      {Closed, Finalized, Cancelled},
	Closed:    {Open, Finalized, Cancelled},
	Finalized: {Open, Closed, Finalized, Cancelled},
	Cancelled: nil,
}

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return len(allowed[s]) == 0
}

// CanTransition reports whether from → to is in the table, ignoring the
// finalized_time guard.
func CanTransition(from, to Status) bool {
	for _, t := range allowed[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition validates from → to. Finalizing requires finalizedTime.
func Transition(from, to Status, finalizedTime *time.Time) error {
	if _, ok := allowed[from]; !ok {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, from)
	}
	if from.Terminal() {
		return fmt.Errorf("%w: poll is %s", ErrInvalidTransition, from)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if to == Finalized && (finalizedTime == nil || finalizedTime.IsZero()) {
		return fmt.Errorf("%w: finalized_time is required to finalize", ErrInvalidTransition)
	}
	return nil
}
