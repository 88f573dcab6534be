//go:build linux

package gpio

import (
	"testing"

	"github.com/warthog618/go-gpiocdev"
)

func TestBiasOption(t *testing.T) {
	tests := []struct {
		pull Pull
		want gpiocdev.LineBias
	}{
		{PullUp, gpiocdev.WithPullUp},
		{PullDown, gpiocdev.WithPullDown},
		{PullNone, gpiocdev.WithBiasDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.pull.String(), func(t *testing.T) {
			if got := biasOption(tt.pull); got != tt.want {
				t.Errorf("biasOption(%s): got %v, want %v", tt.pull, got, tt.want)
			}
		})
	}
}
