//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealDriver reads GPIO from actual hardware using Linux GPIO character device.
type RealDriver struct {
	chip  *gpiocdev.Chip
	lines map[int]*gpiocdev.Line
}

// NewRealDriver opens the named GPIO chip (e.g. "gpiochip0").
func NewRealDriver(chipName string) (*RealDriver, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	return &RealDriver{
		chip:  chip,
		lines: make(map[int]*gpiocdev.Line),
	}, nil
}

func biasOption(pull Pull) gpiocdev.LineBias {
	switch pull {
	case PullUp:
		return gpiocdev.WithPullUp
	case PullDown:
		return gpiocdev.WithPullDown
	default:
		return gpiocdev.WithBiasDisabled
	}
}

// Configure requests the line as an input, or reconfigures it if it was
// already requested.
func (d *RealDriver) Configure(pin int, pull Pull) error {
	if line, ok := d.lines[pin]; ok {
		if err := line.Reconfigure(gpiocdev.AsInput, biasOption(pull)); err != nil {
			return fmt.Errorf("reconfigure pin %d: %w", pin, err)
		}
		return nil
	}

	line, err := d.chip.RequestLine(pin, gpiocdev.AsInput, biasOption(pull))
	if err != nil {
		return fmt.Errorf("request pin %d: %w", pin, err)
	}
	d.lines[pin] = line
	return nil
}

// Read returns the raw level of the line. No inversion happens here.
func (d *RealDriver) Read(pin int) (Level, error) {
	line, ok := d.lines[pin]
	if !ok {
		return Low, fmt.Errorf("read pin %d: not configured", pin)
	}
	v, err := line.Value()
	if err != nil {
		return Low, fmt.Errorf("read pin %d: %w", pin, err)
	}
	if v != 0 {
		return High, nil
	}
	return Low, nil
}

// Close releases GPIO resources.
// Reconfigures lines to input with pull-down (matching Pi boot defaults)
// before closing so the pins are left in a clean state for reboot.
func (d *RealDriver) Close() error {
	var errs []error

	for pin, line := range d.lines {
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", pin, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %d: %w", pin, err))
		}
		delete(d.lines, pin)
	}
	if d.chip != nil {
		if err := d.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
		d.chip = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
