package infospot

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// SceneConfig is a TOML scene file:
//
//	[board]
//	width = 1280
//	height = 720
//	font_size = 16
//	load_timeout = "5s"
//	asset_dir = "assets"
//
//	[camera]
//	yaw = 0     # degrees
//	pitch = 0
//	fov = 60
//
//	[[marker]]
//	name = "door"
//	image = "icons/door.png"   # empty: built-in info icon
//	scale = 30
//	position = [0, 0, -500]
//	text = "Front door"
//	show_delay = "250ms"
type SceneConfig struct {
	Board   BoardSection    `toml:"board"`
	Camera  CameraSection   `toml:"camera"`
	Markers []MarkerSection `toml:"marker"`

	// dir is the directory of the scene file; asset_dir is relative to it.
	dir string
}

// BoardSection configures the window and the board.
type BoardSection struct {
	Width         int           `toml:"width"`
	Height        int           `toml:"height"`
	FontSize      float64       `toml:"font_size"`
	LoadTimeout   time.Duration `toml:"load_timeout"`
	AssetDir      string        `toml:"asset_dir"`
	ScreenshotDir string        `toml:"screenshot_dir"`
}

// CameraSection configures the PanoramaProjector. Angles are in degrees.
type CameraSection struct {
	Yaw   float64 `toml:"yaw"`
	Pitch float64 `toml:"pitch"`
	FOV   float64 `toml:"fov"`
}

// MarkerSection describes one marker.
type MarkerSection struct {
	Name         string        `toml:"name"`
	Image        string        `toml:"image"`
	Scale        float64       `toml:"scale"`
	Position     [3]float64    `toml:"position"`
	Text         string        `toml:"text"`
	ShowDelay    time.Duration `toml:"show_delay"`
	FadeDuration time.Duration `toml:"fade_duration"`
	// Hidden markers are not shown when the scene is populated.
	Hidden bool `toml:"hidden"`
}

// Scene defaults.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// LoadSceneFile reads and validates a TOML scene file. asset_dir is resolved
// relative to the file's directory.
func LoadSceneFile(path string) (*SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	cfg, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// ParseScene decodes TOML scene data, applies defaults and validates it.
// Unknown keys are rejected.
func ParseScene(data []byte) (*SceneConfig, error) {
	var cfg SceneConfig
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("parse scene: unknown keys: %s", strings.Join(keys, ", "))
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return &cfg, nil
}

func (c *SceneConfig) applyDefaults() {
	if c.Board.Width == 0 {
		c.Board.Width = DefaultWidth
	}
	if c.Board.Height == 0 {
		c.Board.Height = DefaultHeight
	}
	if c.Camera.FOV == 0 {
		c.Camera.FOV = DefaultFOV
	}
}

func (c *SceneConfig) validate() error {
	var errs []error
	if c.Board.Width < 0 || c.Board.Height < 0 {
		errs = append(errs, fmt.Errorf("board: negative size %dx%d", c.Board.Width, c.Board.Height))
	}
	if c.Board.LoadTimeout < 0 {
		errs = append(errs, fmt.Errorf("board: negative load_timeout %v", c.Board.LoadTimeout))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera: fov %v out of range (0, 180)", c.Camera.FOV))
	}
	seen := map[string]bool{}
	for i, m := range c.Markers {
		switch {
		case m.Name == "":
			errs = append(errs, fmt.Errorf("marker %d: missing name", i))
		case seen[m.Name]:
			errs = append(errs, fmt.Errorf("marker %d: duplicate name %q", i, m.Name))
		}
		seen[m.Name] = true
		if m.Scale < 0 {
			errs = append(errs, fmt.Errorf("marker %q: negative scale %v", m.Name, m.Scale))
		}
		if m.ShowDelay < 0 || m.FadeDuration < 0 {
			errs = append(errs, fmt.Errorf("marker %q: negative duration", m.Name))
		}
	}
	return errors.Join(errs...)
}

// AssetDir returns the directory images are loaded from.
func (c *SceneConfig) AssetDir() string {
	dir := c.Board.AssetDir
	if dir == "" {
		dir = "."
	}
	if filepath.IsAbs(dir) || c.dir == "" {
		return dir
	}
	return filepath.Join(c.dir, dir)
}

// Projector builds the camera described by the scene.
func (c *SceneConfig) Projector() *PanoramaProjector {
	return &PanoramaProjector{
		Yaw:    c.Camera.Yaw * math.Pi / 180,
		Pitch:  c.Camera.Pitch * math.Pi / 180,
		FOV:    c.Camera.FOV,
		Width:  float64(c.Board.Width),
		Height: float64(c.Board.Height),
	}
}

// BoardConfig converts the board and camera sections.
func (c *SceneConfig) BoardConfig() BoardConfig {
	return BoardConfig{
		FontSize:      c.Board.FontSize,
		FS:            os.DirFS(c.AssetDir()),
		LoadTimeout:   c.Board.LoadTimeout,
		Projector:     c.Projector(),
		ScreenshotDir: c.Board.ScreenshotDir,
	}
}

// Populate adds every marker to b, attaches hover text, and shows each
// non-hidden marker after its delay once its visual resolves.
func (c *SceneConfig) Populate(b *Board) ([]*Marker, error) {
	out := make([]*Marker, 0, len(c.Markers))
	for _, s := range c.Markers {
		m, err := b.AddMarker(MarkerConfig{
			Name:         s.Name,
			Image:        s.Image,
			Scale:        s.Scale,
			Position:     Vec3{s.Position[0], s.Position[1], s.Position[2]},
			FadeDuration: s.FadeDuration,
		})
		if err != nil {
			return out, err
		}
		if s.Text != "" {
			m.AddHoverText(s.Text)
		}
		if !s.Hidden {
			showWhenResolved(m, s.ShowDelay)
		}
		out = append(out, m)
	}
	return out, nil
}

// showWhenResolved shows m now if its visual is ready, or as soon as it is.
// Both subscriptions are dropped once the visual resolves or fails.
func showWhenResolved(m *Marker, delay time.Duration) {
	if m.VisualState() == VisualReady {
		m.Show(delay)
		return
	}
	var resolved, failed CallbackHandle
	resolved = m.On(EventResolved, func(Event) {
		resolved.Remove()
		failed.Remove()
		m.Show(delay)
	})
	failed = m.On(EventLoadFailed, func(Event) {
		resolved.Remove()
		failed.Remove()
	})
}
