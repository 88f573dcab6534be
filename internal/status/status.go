// Package status provides a thread-safe status tracker for the button-sensor daemon.
// It is read by HTTP handlers and written by the polling loop.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/button-sensor/internal/button"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	Chip        string
}

// ButtonStatus is the tracked state of one configured button.
type ButtonStatus struct {
	Name       string
	Pin        int
	ActiveHigh bool
	Pull       string
	State      button.State
	Counts     button.EventCounts
	ReadErrors int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type; safe to use after the lock is released.
type Snapshot struct {
	Buttons       []ButtonStatus
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Ready reports whether every button has a baseline reading.
func (s Snapshot) Ready() bool {
	if len(s.Buttons) == 0 {
		return false
	}
	for _, b := range s.Buttons {
		if b.State == "" || b.State == button.StateUnknown {
			return false
		}
	}
	return true
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu    sync.RWMutex
	snap  Snapshot
	index map[string]int
}

// NewTracker creates a Tracker with the given start time, config and buttons.
// Buttons keep the order they are given in.
func NewTracker(startTime time.Time, cfg Config, buttons []ButtonStatus) *Tracker {
	t := &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
			Buttons:   make([]ButtonStatus, len(buttons)),
		},
		index: make(map[string]int, len(buttons)),
	}
	for i, b := range buttons {
		if b.State == "" {
			b.State = button.StateUnknown
		}
		t.snap.Buttons[i] = b
		t.index[b.Name] = i
	}
	return t
}

// Update sets the state and event counts of the named button.
// Unknown names are ignored.
func (t *Tracker) Update(name string, state button.State, counts button.EventCounts) {
	t.mu.Lock()
	if i, ok := t.index[name]; ok {
		t.snap.Buttons[i].State = state
		t.snap.Buttons[i].Counts = counts
	}
	t.mu.Unlock()
}

// RecordReadError increments the read error count of the named button.
func (t *Tracker) RecordReadError(name string) {
	t.mu.Lock()
	if i, ok := t.index[name]; ok {
		t.snap.Buttons[i].ReadErrors++
	}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	s.Buttons = append([]ButtonStatus(nil), t.snap.Buttons...)
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
