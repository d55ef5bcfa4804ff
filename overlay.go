package infospot

import "strconv"

// Surface is the screen-space UI a marker mounts its overlay on. HUD is the
// ebiten implementation; any retained UI toolkit can satisfy it.
type Surface interface {
	CreateElement(tag string) Element
	AppendChild(el Element)
	RemoveChild(el Element)
}

// Element is a styled node on a Surface.
type Element interface {
	SetStyle(prop, value string)
	Style(prop string) string
	AddClass(name string)
	HasClass(name string) bool
	SetText(text string)
	Text() string
	// Clone returns a detached deep copy.
	Clone() Element
	// Size returns the laid-out width and height in screen pixels.
	Size() (width, height float64)
}

// textOverlayStyle is applied, in order, to overlays built by AddHoverText.
var textOverlayStyle = [...][2]string{
	{"color", "#fff"},
	{"top", "0"},
	{"max-width", "50%"},
	{"max-height", "50%"},
	{"text-shadow", "0 0 3px #000000"},
	{"font-family", `"Trebuchet MS", Helvetica, sans-serif`},
	{"position", "absolute"},
	{"display", "none"},
}

// Overlay is the annotation element owned by a marker.
type Overlay struct {
	el        Element
	locked    bool
	left, top float64
}

// Element returns the mounted element.
func (o *Overlay) Element() Element { return o.el }

// Locked reports whether hover repositioning is frozen.
func (o *Overlay) Locked() bool { return o.locked }

// Displayed reports whether the element is shown (display is not "none").
func (o *Overlay) Displayed() bool { return o.el.Style("display") != "none" }

// Text returns the element's text content.
func (o *Overlay) Text() string { return o.el.Text() }

// Position returns the last translation applied by hover tracking.
func (o *Overlay) Position() (left, top float64) { return o.left, o.top }

func (o *Overlay) setDisplayed(on bool) {
	if on {
		o.el.SetStyle("display", "block")
	} else {
		o.el.SetStyle("display", "none")
	}
}

func (o *Overlay) moveTo(left, top float64) {
	o.left, o.top = left, top
	o.el.SetStyle("transform", "translate("+formatPx(left)+", "+formatPx(top)+")")
}

func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// --- Overlay management ---

// AddHoverText creates a text overlay on first use and sets its text. Later
// calls only update the text.
func (m *Marker) AddHoverText(text string) {
	if m.disposed {
		return
	}
	if m.overlay == nil {
		el := m.container.CreateElement("div")
		for _, kv := range textOverlayStyle {
			el.SetStyle(kv[0], kv[1])
		}
		el.AddClass(OverlayClass)
		m.mount(el)
	}
	m.SetText(text)
}

// AddHoverElement mounts a clone of el as the overlay. No-op if an overlay
// already exists or el is nil.
func (m *Marker) AddHoverElement(el Element) {
	if m.disposed || m.overlay != nil || el == nil {
		return
	}
	c := el.Clone()
	c.SetStyle("top", "0")
	c.SetStyle("position", "absolute")
	c.SetStyle("display", "none")
	c.AddClass(OverlayClass)
	m.mount(c)
}

func (m *Marker) mount(el Element) {
	m.container.AppendChild(el)
	m.overlay = &Overlay{el: el}
	m.logger.Debug("overlay mounted")
}

// RemoveHoverElement detaches the overlay from the container and releases
// it. A later AddHoverText builds a new element.
func (m *Marker) RemoveHoverElement() {
	if m.overlay == nil {
		return
	}
	m.container.RemoveChild(m.overlay.el)
	m.overlay = nil
	m.logger.Debug("overlay removed")
}

// LockHoverElement freezes the overlay's position.
func (m *Marker) LockHoverElement() {
	if m.overlay != nil {
		m.overlay.locked = true
	}
}

// UnlockHoverElement lets hover tracking move the overlay again.
func (m *Marker) UnlockHoverElement() {
	if m.overlay != nil {
		m.overlay.locked = false
	}
}

// SetText replaces the overlay's text. No-op without an overlay.
func (m *Marker) SetText(text string) {
	if m.overlay != nil {
		m.overlay.el.SetText(text)
	}
}
