package infospot

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadSceneFile(t *testing.T) {
	cfg, err := LoadSceneFile("testdata/scene.toml")
	if err != nil {
		t.Fatalf("LoadSceneFile: %v", err)
	}
	if cfg.Board.Width != 1280 || cfg.Board.Height != 720 || cfg.Board.FontSize != 16 {
		t.Errorf("board = %+v", cfg.Board)
	}
	if cfg.Board.LoadTimeout != 5*time.Second {
		t.Errorf("load_timeout = %v, want 5s", cfg.Board.LoadTimeout)
	}
	if len(cfg.Markers) != 3 {
		t.Fatalf("markers = %d, want 3", len(cfg.Markers))
	}

	door := cfg.Markers[0]
	if door.Name != "door" || door.Scale != 30 || door.Position != [3]float64{0, 0, -500} {
		t.Errorf("door = %+v", door)
	}
	if door.ShowDelay != 250*time.Millisecond {
		t.Errorf("show_delay = %v, want 250ms", door.ShowDelay)
	}
	if cfg.Markers[1].FadeDuration != 300*time.Millisecond {
		t.Errorf("fade_duration = %v, want 300ms", cfg.Markers[1].FadeDuration)
	}
	if !strings.Contains(cfg.Markers[1].Text, "\n") {
		t.Error("multi-line text should keep its newline")
	}
	if !cfg.Markers[2].Hidden {
		t.Error("attic should be hidden")
	}
	if got := cfg.AssetDir(); got != "testdata" {
		t.Errorf("AssetDir = %q, want testdata", got)
	}
}

func TestLoadSceneFileMissing(t *testing.T) {
	if _, err := LoadSceneFile(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestParseSceneDefaults(t *testing.T) {
	cfg, err := ParseScene([]byte(`[[marker]]
name = "a"
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Board.Width != DefaultWidth || cfg.Board.Height != DefaultHeight {
		t.Errorf("size = %dx%d", cfg.Board.Width, cfg.Board.Height)
	}
	if cfg.Camera.FOV != DefaultFOV {
		t.Errorf("fov = %v", cfg.Camera.FOV)
	}
	if cfg.AssetDir() != "." {
		t.Errorf("AssetDir = %q, want .", cfg.AssetDir())
	}
}

func TestParseSceneRejectsUnknownKeys(t *testing.T) {
	_, err := ParseScene([]byte(`[board]
widht = 10
`))
	if err == nil || !strings.Contains(err.Error(), "board.widht") {
		t.Errorf("err = %v, want unknown key board.widht", err)
	}
}

func TestParseSceneValidation(t *testing.T) {
	tests := []struct {
		name, toml, want string
	}{
		{"missing name", "[[marker]]\nscale = 1\n", "missing name"},
		{"duplicate", "[[marker]]\nname = \"a\"\n[[marker]]\nname = \"a\"\n", `duplicate name "a"`},
		{"negative scale", "[[marker]]\nname = \"a\"\nscale = -2\n", "negative scale"},
		{"negative delay", "[[marker]]\nname = \"a\"\nshow_delay = \"-1s\"\n", "negative duration"},
		{"fov", "[camera]\nfov = 200\n", "out of range"},
		{"timeout", "[board]\nload_timeout = \"-5s\"\n", "negative load_timeout"},
		{"bad duration", "[board]\nload_timeout = \"soon\"\n", "parse scene"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScene([]byte(tt.toml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestParseSceneJoinsErrors(t *testing.T) {
	_, err := ParseScene([]byte("[camera]\nfov = -1\n[[marker]]\nscale = 1\n"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "fov") || !strings.Contains(err.Error(), "missing name") {
		t.Errorf("err = %v, want both problems reported", err)
	}
}

func TestSceneAbsoluteAssetDir(t *testing.T) {
	dir := t.TempDir()
	assets := filepath.Join(dir, "assets")
	path := filepath.Join(dir, "scene.toml")
	data := "[board]\nasset_dir = " + `"` + filepath.ToSlash(assets) + `"` + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadSceneFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AssetDir() != filepath.ToSlash(assets) {
		t.Errorf("AssetDir = %q, want %q", cfg.AssetDir(), assets)
	}
}

func TestSceneProjector(t *testing.T) {
	cfg, err := ParseScene([]byte("[camera]\nyaw = 90\npitch = -45\nfov = 75\n"))
	if err != nil {
		t.Fatal(err)
	}
	p := cfg.Projector()
	if !near(p.Yaw, math.Pi/2) || !near(p.Pitch, -math.Pi/4) || p.FOV != 75 {
		t.Errorf("projector = %+v", p)
	}
	if p.Width != DefaultWidth || p.Height != DefaultHeight {
		t.Errorf("viewport = %vx%v", p.Width, p.Height)
	}

	bc := cfg.BoardConfig()
	if bc.Projector == nil || bc.FS == nil {
		t.Error("BoardConfig should carry a projector and an asset FS")
	}
}

func TestPopulate(t *testing.T) {
	cfg, err := LoadSceneFile("testdata/scene.toml")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := newTestBoard(t, cfg.Projector())
	markers, err := cfg.Populate(b)
	if err != nil {
		t.Fatalf("Populate: %v", err)
	}
	if len(markers) != 3 {
		t.Fatalf("markers = %d, want 3", len(markers))
	}
	door, window, attic := markers[0], markers[1], markers[2]

	if door.Overlay() == nil || door.Overlay().Text() != "Front door" {
		t.Error("door should carry its hover text")
	}
	if attic.Overlay() != nil {
		t.Error("attic has no text")
	}
	if door.Position != (Vec3{0, 0, -500}) || door.BaseScale() != 30 {
		t.Errorf("door = %v scale %v", door.Position, door.BaseScale())
	}

	// Nothing is shown until the visuals resolve.
	if door.VisibilityState() != VisibilityHidden {
		t.Fatal("door shown before resolution")
	}
	b.UpdateDelta(frame)
	if door.VisibilityState() != VisibilityFadingIn || window.VisibilityState() != VisibilityFadingIn {
		t.Error("non-hidden markers should fade in once resolved")
	}
	if attic.VisibilityState() != VisibilityHidden {
		t.Error("hidden markers must stay hidden")
	}

	// The door waits out its 250ms show delay.
	if door.Visible() {
		t.Error("door visible before its delay")
	}
	for i := 0; i < 20; i++ {
		b.UpdateDelta(frame)
	}
	if !door.Visible() {
		t.Error("door should be visible after its delay")
	}
}

func TestPopulateAlreadyResolved(t *testing.T) {
	cfg, err := ParseScene([]byte("[[marker]]\nname = \"a\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewBoard(BoardConfig{Loader: &manualLoader{}, Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	loader := b.Loader().(*manualLoader)

	markers, err := cfg.Populate(b)
	if err != nil {
		t.Fatal(err)
	}
	loader.resolve(0, 10, 10)
	if markers[0].VisibilityState() != VisibilityFadingIn {
		t.Error("marker should show on resolution")
	}

	// A marker that is already ready is shown immediately.
	m := mustAdd(t, b, MarkerConfig{Name: "b"})
	loader.resolve(1, 10, 10)
	showWhenResolved(m, 0)
	if m.VisibilityState() != VisibilityFadingIn {
		t.Error("ready marker should show immediately")
	}
}

func TestShowWhenResolvedUnsubscribes(t *testing.T) {
	b, err := NewBoard(BoardConfig{Loader: &manualLoader{}, Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	loader := b.Loader().(*manualLoader)
	ok := mustAdd(t, b, MarkerConfig{Name: "ok"})
	bad := mustAdd(t, b, MarkerConfig{Name: "bad"})
	showWhenResolved(ok, 0)
	showWhenResolved(bad, 0)

	loader.resolve(0, 10, 10)
	loader.fail(1, errors.New("missing"))

	for _, m := range []*Marker{ok, bad} {
		for _, evt := range []EventType{EventResolved, EventLoadFailed} {
			if n := len(m.handlers.handlers[evt]); n != 0 {
				t.Errorf("%s: %d %s handlers left, want 0", m.Name, n, evt)
			}
		}
	}
	if ok.VisibilityState() != VisibilityFadingIn {
		t.Error("resolved marker should be showing")
	}
}

func TestPopulateDuplicateName(t *testing.T) {
	cfg := &SceneConfig{Markers: []MarkerSection{{Name: "a"}, {Name: "b"}}}
	b, _ := newTestBoard(t, nil)
	mustAdd(t, b, MarkerConfig{Name: "b"})
	markers, err := cfg.Populate(b)
	if err == nil {
		t.Fatal("expected duplicate name error")
	}
	if len(markers) != 1 {
		t.Errorf("markers = %d, want the one added before the failure", len(markers))
	}
}
