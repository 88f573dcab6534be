// Package gpio provides digital input access with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Level is a raw two-valued reading of a line, before any polarity correction.
type Level int

const (
	Low  Level = 0
	High Level = 1
)

func (l Level) String() string {
	if l == High {
		return "HIGH"
	}
	return "LOW"
}

// Pull selects the bias resistor applied to an input line.
type Pull int

const (
	PullNone Pull = iota // plain input, no bias
	PullUp
	PullDown
)

func (p Pull) String() string {
	switch p {
	case PullUp:
		return "pull-up"
	case PullDown:
		return "pull-down"
	default:
		return "no-pull"
	}
}

// Driver configures and reads digital input lines.
type Driver interface {
	// Configure sets the line up as an input with the given bias.
	Configure(pin int, pull Pull) error

	// Read returns the current raw level of a configured line.
	Read(pin int) (Level, error)

	// Close releases GPIO resources.
	Close() error
}

// DefaultChip is the character device used on a Raspberry Pi.
const DefaultChip = "gpiochip0"
