package infospot

import (
	"os"
	"strings"
	"testing"
)

func TestLoadScript(t *testing.T) {
	data, err := os.ReadFile("testdata/tour.json")
	if err != nil {
		t.Fatal(err)
	}
	r, err := LoadScript(data)
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	if len(r.steps) != 9 {
		t.Errorf("steps = %d, want 9", len(r.steps))
	}
	if r.Done() {
		t.Error("new runner should not be done")
	}
}

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name, json, want string
	}{
		{"invalid json", `{`, "parse script"},
		{"empty", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "jump"}]}`, `unknown action "jump"`},
		{"missing marker", `{"steps": [{"action": "click"}]}`, "click needs a marker"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript([]byte(tt.json))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

// runScript attaches a runner and updates until it is done.
func runScript(t *testing.T, b *Board, js string) {
	t.Helper()
	r, err := LoadScript([]byte(js))
	if err != nil {
		t.Fatal(err)
	}
	b.SetScriptRunner(r)
	for i := 0; !r.Done(); i++ {
		if i > 1000 {
			t.Fatal("script never finished")
		}
		b.UpdateDelta(frame)
	}
}

func TestScriptRunnerInteraction(t *testing.T) {
	b, _ := newTestBoard(t, nil)
	sink := &recordingSink{}
	b.SetEventSink(sink)
	m := mustAdd(t, b, MarkerConfig{Name: "door"})
	m.AddHoverText("Door")

	runScript(t, b, `{"steps": [
		{"action": "show", "marker": "door"},
		{"action": "wait", "frames": 40},
		{"action": "hover", "marker": "door", "x": 100, "y": 100},
		{"action": "click", "marker": "door"},
		{"action": "leave"}
	]}`)

	var got []EventType
	for _, e := range sink.events {
		got = append(got, e.Type)
	}
	want := []EventType{EventResolved, EventShown, EventHoverStart, EventClick, EventHoverEnd}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
	if m.Overlay().Displayed() || m.Overlay().Locked() {
		t.Error("leave should hide and unlock the overlay")
	}
}

func TestScriptRunnerOverlayActions(t *testing.T) {
	b, _ := newTestBoard(t, nil)
	m := mustAdd(t, b, MarkerConfig{Name: "door"})

	runScript(t, b, `{"steps": [
		{"action": "text", "marker": "door", "text": "Hello"},
		{"action": "lock", "marker": "door"},
		{"action": "screenshot", "label": "locked"}
	]}`)
	if m.Overlay() == nil || m.Overlay().Text() != "Hello" {
		t.Fatal("text action should create the overlay")
	}
	if !m.Overlay().Locked() {
		t.Error("lock action should lock the overlay")
	}
	if len(b.screenshotQueue) != 1 || b.screenshotQueue[0] != "locked" {
		t.Errorf("screenshot queue = %v", b.screenshotQueue)
	}

	runScript(t, b, `{"steps": [{"action": "unlock", "marker": "door"}]}`)
	if m.Overlay().Locked() {
		t.Error("unlock action should unlock the overlay")
	}
}

func TestScriptRunnerWaitsForInjections(t *testing.T) {
	b, _ := newTestBoard(t, nil)
	mustAdd(t, b, MarkerConfig{Name: "door"})
	r, err := LoadScript([]byte(`{"steps": [
		{"action": "glide", "marker": "door", "x": 0, "y": 0, "toX": 10, "toY": 0, "frames": 4},
		{"action": "click", "marker": "door"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	b.SetScriptRunner(r)

	// Frame 1 queues the glide and consumes its first point.
	b.UpdateDelta(frame)
	if r.cursor != 1 || b.pendingInjections() != 3 {
		t.Fatalf("cursor=%d pending=%d, want 1 and 3", r.cursor, b.pendingInjections())
	}
	// Frames 2-4 drain the glide without advancing the script.
	for i := 0; i < 3; i++ {
		b.UpdateDelta(frame)
	}
	if r.cursor != 1 {
		t.Errorf("cursor = %d, script advanced while input was queued", r.cursor)
	}
	b.UpdateDelta(frame)
	if r.cursor != 2 {
		t.Errorf("cursor = %d, want 2", r.cursor)
	}
}

func TestScriptRunnerUnknownMarker(t *testing.T) {
	b, _ := newTestBoard(t, nil)
	runScript(t, b, `{"steps": [{"action": "lock", "marker": "ghost"}, {"action": "click", "marker": "ghost"}]}`)
}
