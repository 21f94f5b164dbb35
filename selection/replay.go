// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package selection

import "fmt"

// Event kinds accepted by Replay. Touch events map onto the same kinds.
const (
	EventPress   = "press"
	EventEnter   = "enter"
	EventRelease = "release"
	EventLevel   = "level"
)

// Event is one recorded pointer or touch event.
type Event struct {
	Type  string `json:"type"`
	Key   string `json:"key,omitempty"`
	Level int    `json:"level,omitempty"`
}

// Replay applies events in order. It stops at the first malformed event.
func Replay(m *Machine, events []Event) error {
	for i, ev := range events {
		switch ev.Type {
		case EventPress, "touchstart":
			m.Press(ev.Key)
		case EventEnter, "touchmove":
			m.Enter(ev.Key)
		case EventRelease, "touchend":
			m.Release()
		case EventLevel:
			if err := m.SetLevel(ev.Level); err != nil {
				return fmt.Errorf("event %d: %w", i, err)
			}
		default:
			return fmt.Errorf("event %d: unknown type %q", i, ev.Type)
		}
	}
	return nil
}
