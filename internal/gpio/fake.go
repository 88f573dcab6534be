package gpio

import (
	"errors"
	"fmt"
)

// ConfigureCall records one Configure invocation on a FakeDriver.
type ConfigureCall struct {
	Pin  int
	Pull Pull
}

// FakeDriver is a test double that returns scripted levels per pin.
type FakeDriver struct {
	// Levels contains scripted raw levels per pin.
	// Each call to Read(pin) consumes the next level for that pin.
	Levels map[int][]Level

	// Configured records every Configure call in order.
	Configured []ConfigureCall

	// index tracks current position in Levels per pin
	index map[int]int

	// Closed tracks if Close was called
	Closed bool

	// ConfigureError, if set, will be returned by Configure()
	ConfigureError error

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeDriver creates a FakeDriver with the given scripted levels.
func NewFakeDriver(levels map[int][]Level) *FakeDriver {
	if levels == nil {
		levels = make(map[int][]Level)
	}
	return &FakeDriver{
		Levels: levels,
		index:  make(map[int]int),
	}
}

// Configure records the call.
func (f *FakeDriver) Configure(pin int, pull Pull) error {
	if f.ConfigureError != nil {
		return f.ConfigureError
	}
	f.Configured = append(f.Configured, ConfigureCall{Pin: pin, Pull: pull})
	return nil
}

// Read returns the next scripted level for pin.
// If levels are exhausted, returns the last level repeatedly.
func (f *FakeDriver) Read(pin int) (Level, error) {
	if f.ReadError != nil {
		return Low, f.ReadError
	}

	levels := f.Levels[pin]
	if len(levels) == 0 {
		return Low, fmt.Errorf("no levels configured for pin %d", pin)
	}
	if f.index == nil {
		f.index = make(map[int]int)
	}

	i := f.index[pin]
	if i < len(levels)-1 {
		f.index[pin] = i + 1
	}
	return levels[i], nil
}

// PullFor returns the pull mode of the most recent Configure call for pin.
func (f *FakeDriver) PullFor(pin int) (Pull, error) {
	for i := len(f.Configured) - 1; i >= 0; i-- {
		if f.Configured[i].Pin == pin {
			return f.Configured[i].Pull, nil
		}
	}
	return PullNone, errors.New("pin not configured")
}

// Close marks the driver as closed.
func (f *FakeDriver) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds every pin to its first scripted level.
func (f *FakeDriver) Reset() {
	f.index = make(map[int]int)
	f.Configured = nil
	f.Closed = false
}
