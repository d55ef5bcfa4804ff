package infospot

import (
	"image/color"
	"time"
)

// Tuning constants shared by every marker.
const (
	// HoverScaleFactor is how much a marker grows while hovered.
	HoverScaleFactor = 1.3
	// ScaleDuration is the length of the scale-up and scale-down transitions.
	ScaleDuration = 500 * time.Millisecond
	// DefaultFadeDuration is used when MarkerConfig.FadeDuration is zero.
	DefaultFadeDuration = 500 * time.Millisecond
	// OverlayOffset is the gap in screen pixels between the hover point and
	// the bottom edge of the overlay.
	OverlayOffset = 30.0
	// OverlayClass tags every overlay element created or cloned by a marker.
	OverlayClass = "infospot"
)

// Vec3 is a 3D vector used for marker positions and scales.
type Vec3 struct {
	X, Y, Z float64
}

// Mul returns v with every component multiplied by f.
func (v Vec3) Mul(f float64) Vec3 {
	return Vec3{v.X * f, v.Y * f, v.Z * f}
}

// Equal reports whether all three components match exactly.
func (v Vec3) Equal(o Vec3) bool {
	return v.X == o.X && v.Y == o.Y && v.Z == o.Z
}

// Rect is an axis-aligned screen rectangle. Origin top-left, Y down.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default overlay text color.
var ColorWhite = Color{1, 1, 1, 1}

func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// EventType identifies a kind of marker notification.
type EventType uint8

const (
	EventClick      EventType = iota // fires on every OnClick, overlay or not
	EventHoverStart                  // fires when hover engagement begins
	EventHoverEnd                    // fires when hover engagement ends
	EventShown                       // fires when the fade-in completes
	EventHidden                      // fires when the fade-out completes
	EventResolved                    // fires once the visual has been resolved
	EventLoadFailed                  // fires when the visual could not be resolved
)

var eventTypeNames = [...]string{
	EventClick:      "click",
	EventHoverStart: "hover-start",
	EventHoverEnd:   "hover-end",
	EventShown:      "shown",
	EventHidden:     "hidden",
	EventResolved:   "resolved",
	EventLoadFailed: "load-failed",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// VisualState tracks the resolution of a marker's image.
type VisualState uint8

const (
	VisualPending VisualState = iota // load requested, not yet resolved
	VisualReady                      // resolved; scale bounds and transitions exist
	VisualFailed                     // terminal: the marker stays hidden forever
)

// ScaleState is the state of a marker's hover scale animation.
type ScaleState uint8

const (
	ScaleAtRest    ScaleState = iota // no scale transition registered
	ScaleGrowing                     // scaleUp running
	ScaleShrinking                   // scaleDown running
)

// VisibilityState is the state of a marker's opacity animation.
type VisibilityState uint8

const (
	VisibilityHidden    VisibilityState = iota // not rendered
	VisibilityFadingIn                         // fadeIn registered (possibly still delayed)
	VisibilityShown                            // fully faded in
	VisibilityFadingOut                        // fadeOut registered (possibly still delayed)
)
