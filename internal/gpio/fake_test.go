package gpio

import (
	"errors"
	"testing"
)

func TestFakeDriverRead(t *testing.T) {
	f := NewFakeDriver(map[int][]Level{
		17: {Low, High, High},
	})

	want := []Level{Low, High, High, High}
	for i, w := range want {
		got, err := f.Read(17)
		if err != nil {
			t.Fatalf("read %d: unexpected error: %v", i, err)
		}
		if got != w {
			t.Errorf("read %d: expected %s, got %s", i, w, got)
		}
	}
}

func TestFakeDriverPinsAreIndependent(t *testing.T) {
	f := NewFakeDriver(map[int][]Level{
		17: {Low, High},
		27: {High, Low},
	})

	a, _ := f.Read(17)
	b, _ := f.Read(27)
	c, _ := f.Read(17)
	d, _ := f.Read(27)

	if a != Low || c != High {
		t.Errorf("pin 17: expected (LOW, HIGH), got (%s, %s)", a, c)
	}
	if b != High || d != Low {
		t.Errorf("pin 27: expected (HIGH, LOW), got (%s, %s)", b, d)
	}
}

func TestFakeDriverNoLevels(t *testing.T) {
	f := NewFakeDriver(nil)

	_, err := f.Read(5)
	if err == nil {
		t.Error("expected error with no levels")
	}
}

func TestFakeDriverReadError(t *testing.T) {
	f := NewFakeDriver(map[int][]Level{5: {High}})
	f.ReadError = errors.New("simulated error")

	_, err := f.Read(5)
	if err == nil {
		t.Fatal("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeDriverRecordsConfigure(t *testing.T) {
	f := NewFakeDriver(nil)

	if err := f.Configure(17, PullUp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Configure(27, PullNone); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Configured) != 2 {
		t.Fatalf("expected 2 configure calls, got %d", len(f.Configured))
	}
	if f.Configured[0] != (ConfigureCall{Pin: 17, Pull: PullUp}) {
		t.Errorf("call 0: got %+v", f.Configured[0])
	}

	pull, err := f.PullFor(27)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pull != PullNone {
		t.Errorf("pin 27: expected %s, got %s", PullNone, pull)
	}

	if _, err := f.PullFor(99); err == nil {
		t.Error("expected error for unconfigured pin")
	}
}

func TestFakeDriverConfigureError(t *testing.T) {
	f := NewFakeDriver(nil)
	f.ConfigureError = errors.New("no such line")

	if err := f.Configure(99, PullNone); err == nil {
		t.Error("expected error to be returned")
	}
	if len(f.Configured) != 0 {
		t.Errorf("failed configure should not be recorded, got %d", len(f.Configured))
	}
}

func TestFakeDriverClose(t *testing.T) {
	f := NewFakeDriver(nil)

	if f.Closed {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakeDriverReset(t *testing.T) {
	f := NewFakeDriver(map[int][]Level{4: {High, Low}})
	f.Configure(4, PullDown)

	// Consume first level
	f.Read(4)

	f.Reset()

	got, _ := f.Read(4)
	if got != High {
		t.Errorf("after reset: expected HIGH, got %s", got)
	}
	if len(f.Configured) != 0 {
		t.Errorf("after reset: expected no configure calls, got %d", len(f.Configured))
	}
}

func TestLevelAndPullStrings(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{Low.String(), "LOW"},
		{High.String(), "HIGH"},
		{PullNone.String(), "no-pull"},
		{PullUp.String(), "pull-up"},
		{PullDown.String(), "pull-down"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
