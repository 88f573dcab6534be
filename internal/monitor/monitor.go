// Package monitor samples a set of named buttons once per poll and turns
// their change flags into events. Time is always injected by the caller.
package monitor

import (
	"errors"
	"fmt"
	"time"

	"github.com/sweeney/button-sensor/internal/button"
)

// InputError is a failed sample of one named button.
type InputError struct {
	Name string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    button.EventCounts // totals across all buttons
}

// InputInfo describes one monitored button at a point in time.
type InputInfo struct {
	Name   string
	Input  *button.InputState
	Counts button.EventCounts
}

type entry struct {
	name   string
	input  *button.InputState
	counts button.EventCounts
}

// Monitor polls buttons in the order they were added.
// Not safe for concurrent use.
type Monitor struct {
	entries       []*entry
	byName        map[string]*entry
	startTime     time.Time
	lastHeartbeat time.Time
}

// New creates an empty Monitor. startTime is used for heartbeat uptime.
func New(startTime time.Time) *Monitor {
	return &Monitor{
		byName:        make(map[string]*entry),
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Add registers a button under a unique name.
func (m *Monitor) Add(name string, in *button.InputState) error {
	if name == "" {
		return errors.New("button name must not be empty")
	}
	if _, ok := m.byName[name]; ok {
		return fmt.Errorf("duplicate button name %q", name)
	}
	e := &entry{name: name, input: in}
	m.entries = append(m.entries, e)
	m.byName[name] = e
	return nil
}

// Poll samples every button once and returns the events for those whose
// raw level changed since their previous sample. Buttons that fail to read
// are reported in errs and keep their previous state.
func (m *Monitor) Poll(now time.Time) (events []button.Event, errs []*InputError) {
	for _, e := range m.entries {
		if err := e.input.Sample(); err != nil {
			errs = append(errs, &InputError{Name: e.name, Err: err})
			continue
		}

		t := e.input.Transition()
		if t == "" {
			continue
		}
		e.counts.Add(t)
		events = append(events, button.Event{
			Timestamp: now,
			Button:    e.name,
			Pin:       e.input.Pin(),
			Type:      t,
			State:     e.input.State(),
		})
	}
	return events, errs
}

// IsBaselined reports whether every button has been sampled at least once.
func (m *Monitor) IsBaselined() bool {
	if len(m.entries) == 0 {
		return false
	}
	for _, e := range m.entries {
		if !e.input.Sampled() {
			return false
		}
	}
	return true
}

// Inputs returns the buttons in the order they were added.
func (m *Monitor) Inputs() []InputInfo {
	out := make([]InputInfo, len(m.entries))
	for i, e := range m.entries {
		out[i] = InputInfo{Name: e.name, Input: e.input, Counts: e.counts}
	}
	return out
}

// Counts returns event totals across all buttons.
func (m *Monitor) Counts() button.EventCounts {
	var total button.EventCounts
	for _, e := range m.entries {
		total.Pressed += e.counts.Pressed
		total.Released += e.counts.Released
	}
	return total
}

// anySampled reports whether at least one button has been sampled.
func (m *Monitor) anySampled() bool {
	for _, e := range m.entries {
		if e.input.Sampled() {
			return true
		}
	}
	return false
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil until at least one button has been
// read, if the interval has not elapsed, or if interval is <= 0 (disabled).
// A button whose reads keep failing does not suppress heartbeats.
func (m *Monitor) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 || !m.anySampled() {
		return nil
	}
	if now.Sub(m.lastHeartbeat) < interval {
		return nil
	}

	m.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(m.startTime),
		Counts:    m.Counts(),
	}
}
