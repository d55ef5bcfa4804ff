package infospot

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	// ErrNoContainer is returned when a marker is built without a mount
	// point for its overlay.
	ErrNoContainer = errors.New("infospot: marker has no overlay container")
	// ErrDisposed is reported by Err after Dispose.
	ErrDisposed = errors.New("infospot: marker disposed")
)

// MarkerConfig describes a marker. Only Container is required.
type MarkerConfig struct {
	// Name identifies the marker in scripts, scene files and logs.
	Name string
	// Image is a loader reference. Empty means DefaultIconRef.
	Image string
	// Scale is the base scale; the visual's height in world units. Zero
	// means 1.
	Scale float64
	// Position is where the render host anchors the billboard.
	Position Vec3
	// Container is the surface overlays are mounted on.
	Container Surface
	// FadeDuration is the length of show/hide fades. Zero means
	// DefaultFadeDuration.
	FadeDuration time.Duration
	// Logger defaults to a warn-level stderr logger.
	Logger *log.Logger
}

// Marker is an interactive billboard anchored in a panorama. It owns its
// hover state, its transitions and at most one overlay element. The render
// host polls Scale, Opacity and Visible each frame and forwards pointer
// interaction through OnHover, OnHoverEnd and OnClick.
//
// Markers are not safe for concurrent use; everything runs on the goroutine
// that drives the board.
type Marker struct {
	ID       uuid.UUID
	Name     string
	Position Vec3

	baseScale float64
	scale     Vec3
	opacity   float64
	visible   bool

	hovering       bool
	hoverX, hoverY float64

	state       VisualState
	err         error
	visual      Visual
	bounds      HoverScaleBounds
	transitions *TransitionSet

	overlay   *Overlay
	container Surface

	fadeDuration time.Duration
	anim         *Animator
	handlers     handlerRegistry
	sink         EventSink
	logger       *log.Logger
	texture      *ebiten.Image // created lazily by Board.Draw
	disposed     bool
}

// NewMarker creates a marker and immediately requests its visual from
// loader. Until the visual resolves the marker is invisible and show, hide
// and hover scaling are silent no-ops.
func NewMarker(cfg MarkerConfig, anim *Animator, loader Loader) (*Marker, error) {
	if cfg.Container == nil {
		return nil, fmt.Errorf("marker %q: %w", cfg.Name, ErrNoContainer)
	}
	if anim == nil {
		return nil, fmt.Errorf("marker %q: nil animator", cfg.Name)
	}
	if loader == nil {
		return nil, fmt.Errorf("marker %q: nil loader", cfg.Name)
	}
	if cfg.Scale < 0 {
		return nil, fmt.Errorf("marker %q: negative scale %v", cfg.Name, cfg.Scale)
	}

	scale := cfg.Scale
	if scale == 0 {
		scale = 1
	}
	ref := cfg.Image
	if ref == "" {
		ref = DefaultIconRef
	}
	fade := cfg.FadeDuration
	if fade <= 0 {
		fade = DefaultFadeDuration
	}
	logger := cfg.Logger
	if logger == nil {
		logger = defaultLogger()
	}

	m := &Marker{
		ID:           uuid.New(),
		Name:         cfg.Name,
		Position:     cfg.Position,
		baseScale:    scale,
		scale:        Vec3{scale, scale, 1},
		container:    cfg.Container,
		fadeDuration: fade,
		anim:         anim,
		logger:       logger.With("marker", cfg.Name),
	}

	loader.Load(ref, m.resolve)
	return m, nil
}

// resolve is the loader completion. It runs at most once per marker.
func (m *Marker) resolve(v Visual, err error) {
	if m.disposed || m.state != VisualPending {
		return
	}
	switch {
	case err != nil:
	case v.Width <= 0 || v.Height <= 0:
		err = fmt.Errorf("visual has empty size %dx%d", v.Width, v.Height)
	case v.Image == nil:
		err = errors.New("visual has no image")
	}
	if err != nil {
		m.state = VisualFailed
		m.err = err
		m.logger.Warn("visual failed", "err", err)
		m.emitErr(EventLoadFailed, err)
		return
	}

	m.visual = v
	m.state = VisualReady
	ratio := v.AspectRatio()
	m.bounds = computeHoverBounds(ratio, m.baseScale)
	m.scale = m.bounds.Start
	m.transitions = newTransitionSet(m, m.anim, m.bounds, m.fadeDuration)
	m.logger.Debug("visual resolved", "width", v.Width, "height", v.Height, "aspect", ratio)
	m.emit(EventResolved)
}

// Show fades the marker in after delay. No-op before the visual resolves.
func (m *Marker) Show(delay time.Duration) {
	m.transitions.FadeIn(delay)
}

// Hide fades the marker out after delay. Visible stays true until the fade
// completes. No-op before the visual resolves.
func (m *Marker) Hide(delay time.Duration) {
	m.transitions.FadeOut(delay)
}

// Dispose removes the overlay, stops all transitions and drops subscribers.
// Every later call on the marker is a no-op.
func (m *Marker) Dispose() {
	if m.disposed {
		return
	}
	m.RemoveHoverElement()
	m.transitions.StopAll()
	m.transitions = nil
	m.hovering = false
	m.disposed = true
	m.handlers.reset()
	m.sink = nil
	if m.texture != nil {
		m.texture.Deallocate()
		m.texture = nil
	}
}

// --- Accessors ---

// Scale returns the current, possibly mid-animation, scale.
func (m *Marker) Scale() Vec3 { return m.scale }

// BaseScale returns the configured base scale.
func (m *Marker) BaseScale() float64 { return m.baseScale }

// Opacity returns the billboard opacity in [0, 1]; elastic easing never
// applies to it.
func (m *Marker) Opacity() float64 { return m.opacity }

// Visible reports whether the render host should draw the billboard.
func (m *Marker) Visible() bool { return m.visible }

// IsHovering reports whether the pointer is engaged with the marker.
func (m *Marker) IsHovering() bool { return m.hovering }

// Overlay returns the marker's overlay, or nil.
func (m *Marker) Overlay() *Overlay { return m.overlay }

// VisualState reports how far the visual got.
func (m *Marker) VisualState() VisualState { return m.state }

// Visual returns the resolved visual; zero until VisualReady.
func (m *Marker) Visual() Visual { return m.visual }

// HoverBounds returns the resting and hovered scales and whether they have
// been computed yet.
func (m *Marker) HoverBounds() (HoverScaleBounds, bool) {
	return m.bounds, m.state == VisualReady
}

// Transitions returns the marker's transition set; nil until the visual
// resolves. The nil set is safe to call.
func (m *Marker) Transitions() *TransitionSet { return m.transitions }

// ScaleState returns the state of the hover scale animation.
func (m *Marker) ScaleState() ScaleState { return m.transitions.ScaleState() }

// VisibilityState returns the state of the show/hide animation.
func (m *Marker) VisibilityState() VisibilityState { return m.transitions.VisibilityState() }

// Err returns why the visual failed, or ErrDisposed after Dispose.
func (m *Marker) Err() error {
	if m.disposed {
		return ErrDisposed
	}
	return m.err
}

// IsDisposed reports whether Dispose has been called.
func (m *Marker) IsDisposed() bool { return m.disposed }
