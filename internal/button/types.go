// Package button turns raw digital readings of a single input line into a
// polarity-corrected pressed state and a per-sample change flag.
// This package has NO time dependencies (no debounce, no timers).
// Timestamps on events are always supplied by the caller.
package button

import "time"

// State represents the logical state of a button.
type State string

const (
	StatePressed  State = "PRESSED"
	StateReleased State = "RELEASED"
	StateUnknown  State = "UNKNOWN"
)

// EventType represents a state transition event.
type EventType string

const (
	EventPressed  EventType = "PRESSED"
	EventReleased EventType = "RELEASED"
)

// Event represents a state transition to be published.
type Event struct {
	Timestamp time.Time
	Button    string
	Pin       int
	Type      EventType
	State     State
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	Pressed  int
	Released int
}

// Add increments the counter matching t.
func (c *EventCounts) Add(t EventType) {
	switch t {
	case EventPressed:
		c.Pressed++
	case EventReleased:
		c.Released++
	}
}
