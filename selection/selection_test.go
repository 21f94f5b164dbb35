// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package selection

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func gridOf(keys ...string) func(string) bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return func(k string) bool { return set[k] }
}

func TestPressSelectsAndDrags(t *testing.T) {
	m := New(gridOf("a", "b", "c", "d"))

	m.Press("a")
	require.Equal(t, Dragging, m.State())
	require.Equal(t, Select, m.Mode())

	m.Enter("b")
	m.Enter("c")
	m.Enter("b") // re-entering is a no-op
	m.Release()

	require.Equal(t, Idle, m.State())
	require.Equal(t, []string{"a", "b", "c"}, m.Keys())
}

func TestPressOnSelectedDeselects(t *testing.T) {
	m := New(gridOf("a", "b", "c", "d"))
	require.NoError(t, Replay(m, []Event{
		{Type: EventPress, Key: "a"},
		{Type: EventEnter, Key: "b"},
		{Type: EventEnter, Key: "c"},
		{Type: EventRelease},
	}))

	require.NoError(t, Replay(m, []Event{
		{Type: EventPress, Key: "b"},
		{Type: EventEnter, Key: "c"},
		{Type: EventEnter, Key: "d"}, // unselected; deselect mode leaves it alone
		{Type: EventEnter, Key: "c"},
		{Type: EventRelease},
	}))

	require.Equal(t, []string{"a"}, m.Keys())
}

func TestEnterWhileIdleIsIgnored(t *testing.T) {
	m := New(nil)
	m.Enter("a")
	require.Empty(t, m.Keys())

	m.Press("a")
	m.Release()
	m.Enter("b")
	require.Equal(t, []string{"a"}, m.Keys())
}

func TestLevelAppliesToNewSlots(t *testing.T) {
	m := New(nil)
	require.NoError(t, Replay(m, []Event{
		{Type: EventPress, Key: "a"},
		{Type: EventRelease},
		{Type: EventLevel, Level: LevelIfNeeded},
		{Type: "touchstart", Key: "b"},
		{Type: "touchmove", Key: "a"}, // already selected at level 1
		{Type: "touchmove", Key: "c"},
		{Type: "touchend"},
	}))

	require.Equal(t, map[string]int{"a": LevelAvailable, "b": LevelIfNeeded, "c": LevelIfNeeded}, m.Selected())
}

func TestKeysOutsideGridAreIgnored(t *testing.T) {
	m := New(gridOf("a", "b"))
	m.Press("zz")
	require.Equal(t, Idle, m.State())

	m.Press("a")
	m.Enter("zz")
	m.Enter("b")
	m.Release()
	require.Equal(t, []string{"a", "b"}, m.Keys())

	m.Load(map[string]int{"stale": LevelAvailable, "b": 7})
	require.False(t, m.IsSelected("stale"))
	require.Equal(t, LevelAvailable, m.Selected()["b"])
}

func TestSetGridDropsStaleKeys(t *testing.T) {
	m := New(nil)
	m.Load(map[string]int{"a": 1, "b": 2, "c": 1})

	m.SetGrid(gridOf("b", "c", "d"))
	require.Equal(t, []string{"b", "c"}, m.Keys())
}

func TestReplayRejectsBadEvents(t *testing.T) {
	m := New(nil)
	require.Error(t, Replay(m, []Event{{Type: "hover", Key: "a"}}))
	require.ErrorIs(t, Replay(m, []Event{{Type: EventLevel, Level: 3}}), ErrInvalidLevel)
}

func TestSelectedReturnsCopy(t *testing.T) {
	m := New(nil)
	m.Press("a")
	sel := m.Selected()
	delete(sel, "a")
	require.True(t, m.IsSelected("a"))
}
