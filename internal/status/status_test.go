package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/button-sensor/internal/button"
)

func testButtons() []ButtonStatus {
	return []ButtonStatus{
		{Name: "door", Pin: 17, ActiveHigh: true, Pull: "pull-up"},
		{Name: "bell", Pin: 27, Pull: "no-pull"},
	}
}

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{PollMs: 50, Broker: "tcp://localhost:1883", HTTPAddr: ":80", Chip: "gpiochip0"}
	tr := NewTracker(start, cfg, testButtons())

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.PollMs != 50 {
		t.Errorf("Config.PollMs: got %d, want 50", snap.Config.PollMs)
	}
	if len(snap.Buttons) != 2 {
		t.Fatalf("expected 2 buttons, got %d", len(snap.Buttons))
	}
	if snap.Buttons[0].Name != "door" || snap.Buttons[1].Name != "bell" {
		t.Errorf("button order not preserved: %s, %s", snap.Buttons[0].Name, snap.Buttons[1].Name)
	}
	for _, b := range snap.Buttons {
		if b.State != button.StateUnknown {
			t.Errorf("%s: expected UNKNOWN initially, got %s", b.Name, b.State)
		}
	}
	if snap.Ready() {
		t.Error("expected Ready=false initially")
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), Config{}, testButtons())

	tr.Update("door", button.StatePressed, button.EventCounts{Pressed: 3, Released: 2})
	tr.Update("missing", button.StatePressed, button.EventCounts{Pressed: 9})

	snap := tr.Snapshot()
	if snap.Buttons[0].State != button.StatePressed {
		t.Errorf("door: got %q, want PRESSED", snap.Buttons[0].State)
	}
	if snap.Buttons[0].Counts.Pressed != 3 || snap.Buttons[0].Counts.Released != 2 {
		t.Errorf("door counts: got %+v", snap.Buttons[0].Counts)
	}
	if snap.Buttons[1].State != button.StateUnknown {
		t.Errorf("bell should be untouched, got %q", snap.Buttons[1].State)
	}
	if snap.Ready() {
		t.Error("not ready until every button is sampled")
	}

	tr.Update("bell", button.StateReleased, button.EventCounts{})
	if !tr.Snapshot().Ready() {
		t.Error("expected Ready=true once every button has a state")
	}
}

func TestReadyWithoutButtons(t *testing.T) {
	tr := NewTracker(time.Now(), Config{}, nil)
	if tr.Snapshot().Ready() {
		t.Error("a tracker without buttons is never ready")
	}
}

func TestRecordReadError(t *testing.T) {
	tr := NewTracker(time.Now(), Config{}, testButtons())
	tr.RecordReadError("bell")
	tr.RecordReadError("bell")
	tr.RecordReadError("missing")

	snap := tr.Snapshot()
	if snap.Buttons[1].ReadErrors != 2 {
		t.Errorf("bell read errors: got %d, want 2", snap.Buttons[1].ReadErrors)
	}
	if snap.Buttons[0].ReadErrors != 0 {
		t.Errorf("door read errors: got %d, want 0", snap.Buttons[0].ReadErrors)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), Config{}, nil)

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}

	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=false")
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{StartTime: start, Now: start.Add(90 * time.Second)}
	if snap.Uptime() != 90*time.Second {
		t.Errorf("Uptime: got %v, want 90s", snap.Uptime())
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(time.Now(), Config{}, testButtons())
	snap := tr.Snapshot()
	snap.Buttons[0].State = button.StatePressed

	if tr.Snapshot().Buttons[0].State != button.StateUnknown {
		t.Error("mutating a snapshot must not affect the tracker")
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Buttons: []ButtonStatus{
			{Name: "door", Pin: 17, ActiveHigh: true, Pull: "pull-up", State: button.StatePressed,
				Counts: button.EventCounts{Pressed: 4, Released: 3}, ReadErrors: 1},
			{Name: "bell", Pin: 27, Pull: "no-pull"},
		},
		StartTime:     start,
		Now:           start.Add(3661 * time.Second),
		MQTTConnected: true,
		Config:        Config{PollMs: 50, HeartbeatMs: 900000, Broker: "tcp://b:1883", HTTPAddr: ":80", Chip: "gpiochip0"},
	}

	var parsed StatusJSON
	if err := json.Unmarshal(FormatJSON(snap), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	s := parsed.Status
	if s.Ready {
		t.Error("expected ready=false with an unsampled button")
	}
	if s.UptimeSeconds != 3661 {
		t.Errorf("uptime_seconds: got %d, want 3661", s.UptimeSeconds)
	}
	if s.StartTime != "2026-01-01T00:00:00Z" {
		t.Errorf("start_time: got %s", s.StartTime)
	}
	if !s.MQTT.Connected || s.MQTT.Broker != "tcp://b:1883" {
		t.Errorf("mqtt: got %+v", s.MQTT)
	}
	if len(s.Buttons) != 2 {
		t.Fatalf("expected 2 buttons, got %d", len(s.Buttons))
	}
	door := s.Buttons[0]
	if door.State != "PRESSED" || !door.ActiveHigh || door.Pull != "pull-up" || door.Pin != 17 {
		t.Errorf("door: got %+v", door)
	}
	if door.Counts.Pressed != 4 || door.Counts.Released != 3 || door.ReadErrors != 1 {
		t.Errorf("door counts: got %+v errors=%d", door.Counts, door.ReadErrors)
	}
	if s.Buttons[1].State != "UNKNOWN" {
		t.Errorf("bell: expected UNKNOWN, got %s", s.Buttons[1].State)
	}
	if s.Config.Chip != "gpiochip0" || s.Config.PollMs != 50 {
		t.Errorf("config: got %+v", s.Config)
	}
	if s.Event != "" || s.Reason != "" {
		t.Errorf("web status should carry no event/reason, got %q/%q", s.Event, s.Reason)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{StartTime: start, Now: start}

	tests := []struct {
		event, reason string
	}{
		{"STARTUP", ""},
		{"HEARTBEAT", ""},
		{"SHUTDOWN", "SIGTERM"},
	}

	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			data := FormatStatusEvent(snap, tt.event, tt.reason)

			var raw map[string]map[string]any
			if err := json.Unmarshal(data, &raw); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if raw["status"]["event"] != tt.event {
				t.Errorf("event: got %v, want %s", raw["status"]["event"], tt.event)
			}
			_, hasReason := raw["status"]["reason"]
			if hasReason != (tt.reason != "") {
				t.Errorf("reason presence: got %v, want %v", hasReason, tt.reason != "")
			}
		})
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{}, testButtons())
	var wg sync.WaitGroup

	// Writer
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tr.Update("door", button.StatePressed, button.EventCounts{Pressed: i})
			tr.RecordReadError("bell")
			tr.SetMQTTConnected(i%2 == 0)
		}
	}()

	// Reader
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := tr.Snapshot()
			_ = FormatJSON(snap)
		}
	}()

	wg.Wait()
}
