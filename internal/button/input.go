package button

import (
	"fmt"

	"github.com/sweeney/button-sensor/internal/gpio"
)

// levelUnknown is the baseline sentinel. No driver reading can equal it.
const levelUnknown gpio.Level = -1

// InputState tracks one physical binary input.
// Not safe for concurrent use; confine each instance to one goroutine.
type InputState struct {
	driver     gpio.Driver
	pin        int
	activeHigh bool
	pull       gpio.Pull

	lastRaw gpio.Level
	active  bool
	changed bool
}

type options struct {
	internalPull bool
	pull         *gpio.Pull
}

// Option customises how New configures the line.
type Option func(*options)

// WithInternalPull enables the internal pull-up for lines whose polarity
// flag is set. It has no effect otherwise.
func WithInternalPull() Option {
	return func(o *options) { o.internalPull = true }
}

// WithPull selects the bias explicitly, overriding the default mapping.
func WithPull(p gpio.Pull) Option {
	return func(o *options) { o.pull = &p }
}

// New configures pin as a digital input on d and returns its InputState.
//
// When activeHigh is set the line is read inverted: a HIGH level is the
// idle condition and a LOW level means pressed. The line gets a pull-up only
// when activeHigh and WithInternalPull are both given, unless WithPull
// overrides the choice.
//
// The pin is not validated here; a driver error is returned as-is (wrapped).
func New(d gpio.Driver, pin int, activeHigh bool, opts ...Option) (*InputState, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	pull := gpio.PullNone
	if activeHigh && o.internalPull {
		pull = gpio.PullUp
	}
	if o.pull != nil {
		pull = *o.pull
	}

	if err := d.Configure(pin, pull); err != nil {
		return nil, fmt.Errorf("configure pin %d: %w", pin, err)
	}

	return &InputState{
		driver:     d,
		pin:        pin,
		activeHigh: activeHigh,
		pull:       pull,
		lastRaw:    levelUnknown,
	}, nil
}

// Pin returns the line the input is bound to.
func (s *InputState) Pin() int {
	return s.pin
}

// ActiveHigh returns the polarity flag given to New.
func (s *InputState) ActiveHigh() bool {
	return s.activeHigh
}

// Pull returns the bias the line was configured with.
func (s *InputState) Pull() gpio.Pull {
	return s.pull
}

// Sample reads the line once and updates the logical state and change flag.
// The first successful sample only establishes the baseline, so Changed
// reports false after it. On a read error the state is left untouched.
func (s *InputState) Sample() error {
	raw, err := s.driver.Read(s.pin)
	if err != nil {
		return fmt.Errorf("sample pin %d: %w", s.pin, err)
	}

	s.active = logical(raw, s.activeHigh)
	s.changed = s.lastRaw != levelUnknown && raw != s.lastRaw
	s.lastRaw = raw
	return nil
}

// logical applies the polarity flag to a raw level.
func logical(raw gpio.Level, activeHigh bool) bool {
	return (raw == gpio.High) != activeHigh
}

// IsActive reports whether the input was pressed at the last sample.
// False before the first sample.
func (s *InputState) IsActive() bool {
	return s.active
}

// Changed reports whether the last sample saw a different raw level than
// the sample before it.
func (s *InputState) Changed() bool {
	return s.changed
}

// Sampled reports whether a baseline reading has been taken.
func (s *InputState) Sampled() bool {
	return s.lastRaw != levelUnknown
}

// State returns the logical state as of the last sample.
func (s *InputState) State() State {
	switch {
	case !s.Sampled():
		return StateUnknown
	case s.active:
		return StatePressed
	default:
		return StateReleased
	}
}

// Transition returns the event type for the last sample's change, or ""
// if the last sample did not change.
func (s *InputState) Transition() EventType {
	if !s.changed {
		return ""
	}
	if s.active {
		return EventPressed
	}
	return EventReleased
}
