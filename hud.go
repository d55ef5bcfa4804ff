package infospot

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFontSize is the HUD text size used when none is configured.
const DefaultFontSize = 14.0

// shadowOffset is where the text shadow is drawn relative to the glyphs.
const shadowOffset = 1.0

var shadowColor = Color{0, 0, 0, 0.8}

// HUD is a screen-space Surface drawn on top of the scene. Its elements are
// Labels: styled text blocks positioned by their "transform" translation.
//
// Labels honour display, color, text-shadow (drawn as a fixed drop shadow),
// transform, max-width and max-height. Text wraps at word boundaries to
// max-width and is cut to the lines that fit max-height. Percentages resolve
// against the viewport, which Draw takes from the screen it renders to.
// Other properties are stored but not rendered.
type HUD struct {
	face   *text.GoTextFace
	lh     float64 // cached line height
	labels []*Label

	viewW, viewH float64
	logger       *log.Logger
}

// NewHUD parses TrueType data for overlay text. nil ttf uses Go Regular; a
// zero size uses DefaultFontSize.
func NewHUD(ttf []byte, size float64) (*HUD, error) {
	if ttf == nil {
		ttf = goregular.TTF
	}
	if size <= 0 {
		size = DefaultFontSize
	}
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("infospot: failed to parse TTF data: %w", err)
	}
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &HUD{
		face: face,
		lh:   m.HAscent + m.HDescent + m.HLineGap,
	}, nil
}

// CreateElement returns a detached Label.
func (h *HUD) CreateElement(tag string) Element {
	return &Label{hud: h, tag: tag, styles: map[string]string{}}
}

// SetViewport sets the size that percentage max-width and max-height
// resolve against. Zero disables both.
func (h *HUD) SetViewport(width, height float64) {
	h.viewW, h.viewH = width, height
}

// AppendChild mounts a Label created by this HUD. Elements from other
// surfaces are never drawn; they are logged and ignored.
func (h *HUD) AppendChild(el Element) {
	l, ok := el.(*Label)
	if !ok {
		if h.logger != nil {
			h.logger.Warn("overlay element is not a HUD label and will not be drawn", "type", fmt.Sprintf("%T", el))
		}
		return
	}
	if l.attached {
		return
	}
	l.hud = h
	l.attached = true
	h.labels = append(h.labels, l)
}

// RemoveChild unmounts a Label. No-op if it is not mounted here.
func (h *HUD) RemoveChild(el Element) {
	l, ok := el.(*Label)
	if !ok {
		return
	}
	for i, c := range h.labels {
		if c == l {
			copy(h.labels[i:], h.labels[i+1:])
			h.labels[len(h.labels)-1] = nil
			h.labels = h.labels[:len(h.labels)-1]
			l.attached = false
			return
		}
	}
}

// Labels returns the mounted labels in draw order. The returned slice MUST
// NOT be mutated by the caller.
func (h *HUD) Labels() []*Label {
	return h.labels
}

// LineHeight returns the vertical distance between baselines.
func (h *HUD) LineHeight() float64 {
	return h.lh
}

// Draw renders every displayed label at its translation. The screen size
// becomes the viewport.
func (h *HUD) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	h.SetViewport(float64(b.Dx()), float64(b.Dy()))
	for _, l := range h.labels {
		passes := l.passes()
		if len(passes) == 0 {
			continue
		}
		s := l.layout()
		for _, p := range passes {
			h.drawText(screen, s, p)
		}
	}
}

func (h *HUD) drawText(screen *ebiten.Image, s string, p textPass) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(p.x, p.y)
	op.ColorScale.Scale(float32(p.color.R), float32(p.color.G), float32(p.color.B), float32(p.color.A))
	op.LineSpacing = h.lh
	text.Draw(screen, s, h.face, op)
}

// wrap breaks s at spaces so each line fits maxW where possible. A single
// word wider than maxW gets a line of its own.
func (h *HUD) wrap(s string, maxW float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if text.Advance(line+" "+w, h.face) > maxW {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}

// textPass is one text.Draw call for a label.
type textPass struct {
	x, y  float64
	color Color
}

// --- Label ---

// Label is a HUD element.
type Label struct {
	hud      *HUD
	tag      string
	styles   map[string]string
	classes  []string
	text     string
	x, y     float64
	attached bool
}

// Tag returns the tag the label was created with.
func (l *Label) Tag() string { return l.tag }

// Attached reports whether the label is mounted on its HUD.
func (l *Label) Attached() bool { return l.attached }

// Translation returns the parsed "transform" offset.
func (l *Label) Translation() (x, y float64) { return l.x, l.y }

// SetStyle sets a style property. "transform" values of the form
// translate(<x>px, <y>px) also move the label.
func (l *Label) SetStyle(prop, value string) {
	l.styles[prop] = value
	if prop == "transform" {
		if x, y, ok := parseTranslate(value); ok {
			l.x, l.y = x, y
		}
	}
}

// Style returns a style property, or "" if unset.
func (l *Label) Style(prop string) string { return l.styles[prop] }

// AddClass adds a class name once.
func (l *Label) AddClass(name string) {
	if !slices.Contains(l.classes, name) {
		l.classes = append(l.classes, name)
	}
}

// HasClass reports whether the label carries the class.
func (l *Label) HasClass(name string) bool { return slices.Contains(l.classes, name) }

// SetText replaces the label's content.
func (l *Label) SetText(s string) { l.text = s }

// Text returns the label's content.
func (l *Label) Text() string { return l.text }

// Clone returns a detached copy with the same styles, classes and text.
func (l *Label) Clone() Element {
	c := &Label{
		hud:     l.hud,
		tag:     l.tag,
		styles:  make(map[string]string, len(l.styles)),
		classes: slices.Clone(l.classes),
		text:    l.text,
		x:       l.x,
		y:       l.y,
	}
	for k, v := range l.styles {
		c.styles[k] = v
	}
	return c
}

// Size measures the laid out text with the HUD face.
func (l *Label) Size() (width, height float64) {
	if l.hud == nil || l.text == "" {
		return 0, 0
	}
	return text.Measure(l.layout(), l.hud.face, l.hud.lh)
}

// layout returns the text wrapped to max-width and cut to max-height.
func (l *Label) layout() string {
	if l.hud == nil {
		return l.text
	}
	maxW, wrap := cssLength(l.Style("max-width"), l.hud.viewW)
	maxH, clamp := cssLength(l.Style("max-height"), l.hud.viewH)
	if !wrap && !clamp {
		return l.text
	}
	lines := strings.Split(l.text, "\n")
	if wrap {
		var wrapped []string
		for _, para := range lines {
			wrapped = append(wrapped, l.hud.wrap(para, maxW)...)
		}
		lines = wrapped
	}
	if clamp {
		if n := max(int(maxH/l.hud.lh), 1); len(lines) > n {
			lines = lines[:n]
		}
	}
	return strings.Join(lines, "\n")
}

// passes lists the draws for a displayed label: an optional shadow, then
// the text in its color. Unknown colors draw white.
func (l *Label) passes() []textPass {
	if l.Style("display") == "none" || l.text == "" {
		return nil
	}
	var out []textPass
	if sh := l.Style("text-shadow"); sh != "" && sh != "none" {
		out = append(out, textPass{l.x + shadowOffset, l.y + shadowOffset, shadowColor})
	}
	c, ok := parseCSSColor(l.Style("color"))
	if !ok {
		c = ColorWhite
	}
	return append(out, textPass{l.x, l.y, c})
}

// --- CSS helpers ---

// parseTranslate parses "translate(<x>px, <y>px)".
func parseTranslate(v string) (x, y float64, ok bool) {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "translate(") || !strings.HasSuffix(v, ")") {
		return 0, 0, false
	}
	args := strings.Split(v[len("translate("):len(v)-1], ",")
	if len(args) != 2 {
		return 0, 0, false
	}
	var vals [2]float64
	for i, a := range args {
		a = strings.TrimSuffix(strings.TrimSpace(a), "px")
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return 0, 0, false
		}
		vals[i] = f
	}
	return vals[0], vals[1], true
}

// cssLength resolves "<n>px", "<n>" or "<n>%" of ref. ok is false for
// "none", unparsable or non-positive values, and percentages of a zero ref.
func cssLength(v string, ref float64) (px float64, ok bool) {
	v = strings.TrimSpace(v)
	pct := strings.HasSuffix(v, "%")
	v = strings.TrimSuffix(strings.TrimSuffix(v, "%"), "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	if pct {
		if ref <= 0 {
			return 0, false
		}
		f = f / 100 * ref
	}
	return f, true
}

// parseCSSColor understands #rgb, #rrggbb and a few names.
func parseCSSColor(s string) (Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "white":
		return ColorWhite, true
	case "black":
		return Color{0, 0, 0, 1}, true
	}
	if !strings.HasPrefix(s, "#") {
		return Color{}, false
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Color{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, false
	}
	return Color{
		R: float64(v>>16&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v&0xff) / 255,
		A: 1,
	}, true
}
