package infospot

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

// BoardConfig configures a Board. Every field is optional.
type BoardConfig struct {
	// Font is TrueType data for overlay text; nil uses Go Regular.
	Font     []byte
	FontSize float64
	// FS is where the default ImageLoader reads image files.
	FS fs.FS
	// LoadTimeout bounds each image load of the default loader. fs.FS
	// reads cannot be cancelled, so a timed out decode still runs to the end.
	LoadTimeout time.Duration
	// Loader replaces the default ImageLoader.
	Loader Loader
	// Projector maps marker positions to the screen. Without one markers
	// are neither drawn nor hover-tracked by the board.
	Projector Projector
	Logger    *log.Logger
	// ScreenshotDir is where Screenshot writes PNGs. Default "screenshots".
	ScreenshotDir string
}

// Board is the render host for a set of markers: it owns the animator, polls
// the loader, routes hover and click to markers, and draws billboards and
// their overlays. It is single-threaded; call everything from the game loop.
type Board struct {
	// ClearColor fills the screen at the start of Draw when its alpha is
	// non-zero.
	ClearColor Color
	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir string

	markers   []*Marker
	byName    map[string]*Marker
	anim      *Animator
	loader    Loader
	hud       *HUD
	projector Projector
	hovered   *Marker
	sink      EventSink

	logger *log.Logger
	level  log.Level
	debug  bool

	injectQueue     []syntheticEvent
	runner          *ScriptRunner
	screenshotQueue []string
}

// NewBoard creates a board with its HUD and loader.
func NewBoard(cfg BoardConfig) (*Board, error) {
	hud, err := NewHUD(cfg.Font, cfg.FontSize)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = defaultLogger()
	}
	loader := cfg.Loader
	if loader == nil {
		loader = NewImageLoader(cfg.FS, cfg.LoadTimeout)
	}
	hud.logger = logger
	dir := cfg.ScreenshotDir
	if dir == "" {
		dir = "screenshots"
	}
	return &Board{
		ScreenshotDir: dir,
		byName:        map[string]*Marker{},
		anim:          NewAnimator(),
		loader:        loader,
		hud:           hud,
		projector:     cfg.Projector,
		logger:        logger,
		level:         logger.GetLevel(),
	}, nil
}

// HUD returns the surface overlays are mounted on.
func (b *Board) HUD() *HUD { return b.hud }

// Animator returns the board's transition scheduler.
func (b *Board) Animator() *Animator { return b.anim }

// Loader returns the board's image loader.
func (b *Board) Loader() Loader { return b.loader }

// Projector returns the current projector, or nil.
func (b *Board) Projector() Projector { return b.projector }

// SetProjector replaces the projector.
func (b *Board) SetProjector(p Projector) { b.projector = p }

// SetEventSink forwards every marker event to sink. nil disables.
func (b *Board) SetEventSink(sink EventSink) { b.sink = sink }

// AddMarker creates a marker that mounts its overlay on the board's HUD,
// unless cfg.Container says otherwise. Non-empty names must be unique.
func (b *Board) AddMarker(cfg MarkerConfig) (*Marker, error) {
	if cfg.Name != "" {
		if _, dup := b.byName[cfg.Name]; dup {
			return nil, fmt.Errorf("marker %q: duplicate name", cfg.Name)
		}
	}
	if cfg.Container == nil {
		cfg.Container = b.hud
	}
	if cfg.Logger == nil {
		cfg.Logger = b.logger
	}

	m, err := NewMarker(cfg, b.anim, b.loader)
	if err != nil {
		return nil, err
	}
	m.sink = b
	b.markers = append(b.markers, m)
	if m.Name != "" {
		b.byName[m.Name] = m
	}
	b.logger.Debug("marker added", "marker", m.Name, "id", m.ID)
	if b.debug {
		b.debugCheckMarkerCount()
	}
	return m, nil
}

// RemoveMarker disposes m and forgets it. No-op for markers of other boards.
func (b *Board) RemoveMarker(m *Marker) {
	for i, c := range b.markers {
		if c != m {
			continue
		}
		copy(b.markers[i:], b.markers[i+1:])
		b.markers[len(b.markers)-1] = nil
		b.markers = b.markers[:len(b.markers)-1]
		if m.Name != "" {
			delete(b.byName, m.Name)
		}
		if b.hovered == m {
			b.hovered = nil
		}
		m.Dispose()
		return
	}
}

// Marker returns the marker with the given name, or nil.
func (b *Board) Marker(name string) *Marker { return b.byName[name] }

// Markers returns every marker in insertion order. The returned slice MUST
// NOT be mutated by the caller.
func (b *Board) Markers() []*Marker { return b.markers }

// Hovered returns the marker the pointer is engaged with, or nil.
func (b *Board) Hovered() *Marker { return b.hovered }

// SetHovered moves hover engagement to m, ending it on the previous marker.
// nil ends engagement. Hit testing is the caller's job; ScreenBounds helps.
func (b *Board) SetHovered(m *Marker) {
	if m == b.hovered {
		return
	}
	if b.hovered != nil {
		b.hovered.OnHoverEnd()
	}
	b.hovered = m
	b.syncHover()
}

// Click forwards a click to m. nil is ignored.
func (b *Board) Click(m *Marker) {
	if m != nil {
		m.OnClick()
	}
}

// ShowAll shows every marker after delay.
func (b *Board) ShowAll(delay time.Duration) {
	for _, m := range b.markers {
		m.Show(delay)
	}
}

// HideAll hides every marker after delay.
func (b *Board) HideAll(delay time.Duration) {
	for _, m := range b.markers {
		m.Hide(delay)
	}
}

// Update advances the board by one tick at the current ebiten TPS.
func (b *Board) Update() {
	b.UpdateDelta(float32(1.0 / float64(ebiten.TPS())))
}

// UpdateDelta advances the board by dt seconds: it delivers finished image
// loads, runs the script and synthetic input, advances transitions, and
// finally moves the hovered marker's overlay to its projected position.
func (b *Board) UpdateDelta(dt float32) {
	if p, ok := b.loader.(Poller); ok {
		p.Poll()
	}
	if b.runner != nil {
		b.runner.step(b)
	}
	b.processInjected()
	b.anim.Update(dt)
	b.syncHover()
}

// syncHover keeps the hovered marker's overlay attached to its projection.
func (b *Board) syncHover() {
	if b.hovered == nil || b.projector == nil {
		return
	}
	x, y, _, ok := b.projector.Project(b.hovered.Position)
	if !ok {
		return
	}
	b.hovered.OnHover(x, y)
}

// ScreenBounds returns the projected billboard rectangle of m, centered on
// its projected position. ok is false without a projector, behind the
// camera, or before the visual resolves.
func (b *Board) ScreenBounds(m *Marker) (r Rect, ok bool) {
	if b.projector == nil || m.state != VisualReady {
		return Rect{}, false
	}
	x, y, unit, ok := b.projector.Project(m.Position)
	if !ok {
		return Rect{}, false
	}
	w := m.scale.X * unit
	h := m.scale.Y * unit
	return Rect{X: x - w/2, Y: y - h/2, Width: w, Height: h}, true
}

// MarkerAt returns the topmost visible marker whose billboard contains the
// screen point, or nil. Later markers draw on top.
func (b *Board) MarkerAt(x, y float64) *Marker {
	for i := len(b.markers) - 1; i >= 0; i-- {
		m := b.markers[i]
		if !m.visible {
			continue
		}
		if r, ok := b.ScreenBounds(m); ok && r.Contains(x, y) {
			return m
		}
	}
	return nil
}

// Draw renders visible billboards with their opacity, then the HUD, then
// writes any queued screenshots.
func (b *Board) Draw(screen *ebiten.Image) {
	if b.ClearColor.A > 0 {
		screen.Fill(b.ClearColor.toRGBA())
	}
	for _, m := range b.markers {
		if !m.visible {
			continue
		}
		r, ok := b.ScreenBounds(m)
		if !ok || r.Width <= 0 || r.Height <= 0 {
			continue
		}
		if m.texture == nil {
			m.texture = ebiten.NewImageFromImage(m.visual.Image)
		}
		screen.DrawImage(m.texture, m.billboardOptions(r))
	}
	b.hud.Draw(screen)
	b.flushScreenshots(screen)
}

// billboardOptions stretches the visual over r at the marker's opacity.
func (m *Marker) billboardOptions(r Rect) *ebiten.DrawImageOptions {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(r.Width/float64(m.visual.Width), r.Height/float64(m.visual.Height))
	op.GeoM.Translate(r.X, r.Y)
	op.ColorScale.ScaleAlpha(float32(m.opacity))
	op.Filter = ebiten.FilterLinear
	return op
}

// Emit implements EventSink for the board's own markers: it logs the event
// and forwards it to the configured sink.
func (b *Board) Emit(e Event) {
	// Failures are logged at warn level by the marker itself.
	if e.Type != EventLoadFailed {
		b.logger.Debug("marker event", "marker", e.Name, "event", e.Type)
	}
	if b.sink != nil {
		b.sink.Emit(e)
	}
}
