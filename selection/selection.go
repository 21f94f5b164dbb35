// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package selection tracks one respondent's in-progress slot painting.
//
// A press decides the gesture's mode from the slot under the pointer:
// pressing an unselected slot selects, pressing a selected one deselects.
// Entering further slots applies that mode once per slot, so dragging back
// over painted cells never toggles them. Release ends the gesture.
//
// A Machine has a single owner and is not safe for concurrent use.
package selection

import (
	"errors"
	"fmt"
	"sort"
)

type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

type Mode int

const (
	Select Mode = iota
	Deselect
)

func (m Mode) String() string {
	if m == Deselect {
		return "deselect"
	}
	return "select"
}

const (
	LevelAvailable = 1
	LevelIfNeeded  = 2
)

var ErrInvalidLevel = errors.New("availability level must be 1 or 2")

// Machine is the selection state for one grid.
type Machine struct {
	state    State
	mode     Mode
	level    int
	selected map[string]int
	valid    func(key string) bool
}

// New creates an idle machine painting at LevelAvailable. valid reports
// whether a key belongs to the current grid; nil accepts every key.
func New(valid func(key string) bool) *Machine {
	return &Machine{
		level:    LevelAvailable,
		selected: make(map[string]int),
		valid:    valid,
	}
}

func (m *Machine) State() State { return m.state }
func (m *Machine) Mode() Mode   { return m.mode }
func (m *Machine) Level() int   { return m.level }

// SetLevel changes the level applied to newly selected slots.
func (m *Machine) SetLevel(level int) error {
	if level != LevelAvailable && level != LevelIfNeeded {
		return fmt.Errorf("%w: got %d", ErrInvalidLevel, level)
	}
	m.level = level
	return nil
}

// SetGrid replaces the grid membership test and drops selected keys that
// are no longer part of it.
func (m *Machine) SetGrid(valid func(key string) bool) {
	m.valid = valid
	for key := range m.selected {
		if !m.inGrid(key) {
			delete(m.selected, key)
		}
	}
}

// Load seeds the selection, e.g. from a stored response. Keys outside the
// grid and unknown levels are skipped.
func (m *Machine) Load(existing map[string]int) {
	for key, level := range existing {
		if !m.inGrid(key) || (level != LevelAvailable && level != LevelIfNeeded) {
			continue
		}
		m.selected[key] = level
	}
}

// Press starts a gesture on key.
func (m *Machine) Press(key string) {
	if !m.inGrid(key) {
		return
	}
	m.state = Dragging
	if _, ok := m.selected[key]; ok {
		m.mode = Deselect
		delete(m.selected, key)
		return
	}
	m.mode = Select
	m.selected[key] = m.level
}

// Enter applies the gesture's mode to key. Idempotent per key.
func (m *Machine) Enter(key string) {
	if m.state != Dragging || !m.inGrid(key) {
		return
	}
	_, ok := m.selected[key]
	switch {
	case m.mode == Select && !ok:
		m.selected[key] = m.level
	case m.mode == Deselect && ok:
		delete(m.selected, key)
	}
}

// Release ends the gesture, wherever the pointer is.
func (m *Machine) Release() {
	m.state = Idle
	m.mode = Select
}

// IsSelected reports whether key is selected.
func (m *Machine) IsSelected(key string) bool {
	_, ok := m.selected[key]
	return ok
}

// Selected returns a copy of the selection, key to level.
func (m *Machine) Selected() map[string]int {
	out := make(map[string]int, len(m.selected))
	for k, v := range m.selected {
		out[k] = v
	}
	return out
}

// Keys returns the selected keys in sorted order. RFC 3339 UTC keys sort
// chronologically.
func (m *Machine) Keys() []string {
	keys := make([]string, 0, len(m.selected))
	for k := range m.selected {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *Machine) inGrid(key string) bool {
	return m.valid == nil || m.valid(key)
}
