//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealDriver is not available on non-Linux platforms.
type RealDriver struct{}

// NewRealDriver returns an error on non-Linux platforms.
func NewRealDriver(chipName string) (*RealDriver, error) {
	return nil, errUnsupported
}

// Configure is not implemented on non-Linux platforms.
func (d *RealDriver) Configure(pin int, pull Pull) error {
	return errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (d *RealDriver) Read(pin int) (Level, error) {
	return Low, errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (d *RealDriver) Close() error {
	return nil
}
