package infospot

import (
	"testing"
	"time"
)

// --- Hover start ---

func TestHoverWithoutOverlay(t *testing.T) {
	m, anim, _ := newReadyMarker(t, 1, 100, 100)
	var starts int
	m.On(EventHoverStart, func(Event) { starts++ })

	m.OnHover(10, 20)
	if !m.IsHovering() {
		t.Fatal("IsHovering should be true")
	}
	if m.ScaleState() != ScaleGrowing {
		t.Errorf("ScaleState = %d, want Growing", m.ScaleState())
	}
	if m.Overlay() != nil {
		t.Error("no overlay should be created by hovering")
	}

	// Repeated hover calls do not restart the session.
	m.OnHover(11, 21)
	m.OnHover(12, 22)
	if starts != 1 {
		t.Errorf("hover-start events = %d, want 1", starts)
	}

	advance(anim, ScaleDuration+100*time.Millisecond)
	b, _ := m.HoverBounds()
	if m.Scale() != b.End {
		t.Errorf("Scale = %v, want %v", m.Scale(), b.End)
	}
}

func TestHoverStartAtEndScaleDoesNotRestart(t *testing.T) {
	m, anim, _ := newReadyMarker(t, 1, 100, 100)
	m.OnHover(0, 0)
	advance(anim, ScaleDuration+100*time.Millisecond)
	up, _, _, _ := m.Transitions().Transitions()

	m.onHoverStart()
	if up.Running() || anim.Len() != 0 {
		t.Error("scaleUp should not start when already at the hovered scale")
	}
}

func TestHoverBeforeResolution(t *testing.T) {
	m, loader, anim, _ := newPendingMarker(t, 1)
	m.AddHoverText("early")

	m.OnHover(100, 100)
	if !m.Overlay().Displayed() {
		t.Error("overlay should be revealed even before the visual resolves")
	}
	if anim.Len() != 0 {
		t.Error("no transition may start before resolution")
	}

	loader.resolve(0, 100, 100)
	m.OnHoverEnd()
	if m.Overlay().Displayed() {
		t.Error("overlay should hide on hover end")
	}
}

// --- Overlay tracking ---

func TestHoverPositionsOverlay(t *testing.T) {
	m, _, _ := newReadyMarker(t, 1, 100, 100)
	m.AddHoverText("Info")
	el := m.Overlay().Element().(*memElement)

	m.OnHover(200, 300)
	if !m.Overlay().Displayed() {
		t.Fatal("overlay should be displayed on hover start")
	}
	left, top := m.Overlay().Position()
	// 100×40 element: left = 200-50, top = 300-40-30.
	if left != 150 || top != 230 {
		t.Errorf("Position = (%v, %v), want (150, 230)", left, top)
	}
	if got := el.Style("transform"); got != "translate(150px, 230px)" {
		t.Errorf("transform = %q", got)
	}

	m.OnHover(210.5, 300)
	if got := el.Style("transform"); got != "translate(160.5px, 230px)" {
		t.Errorf("transform = %q, want fractional translation", got)
	}
}

func TestClickLocksOverlay(t *testing.T) {
	m, _, _ := newReadyMarker(t, 1, 100, 100)
	m.AddHoverText("Info")

	m.OnHover(200, 300)
	m.OnClick()
	if !m.Overlay().Locked() {
		t.Fatal("click should lock the overlay")
	}
	m.OnHover(400, 400)
	if left, top := m.Overlay().Position(); left != 150 || top != 230 {
		t.Errorf("locked overlay moved to (%v, %v)", left, top)
	}

	m.UnlockHoverElement()
	m.OnHover(400, 400)
	if left, top := m.Overlay().Position(); left != 350 || top != 330 {
		t.Errorf("unlocked overlay at (%v, %v), want (350, 330)", left, top)
	}
}

func TestHoverEndHidesAndUnlocks(t *testing.T) {
	m, _, _ := newReadyMarker(t, 1, 100, 100)
	m.AddHoverText("Info")
	m.OnHover(200, 300)
	m.OnClick()

	m.OnHoverEnd()
	o := m.Overlay()
	if o.Displayed() {
		t.Error("overlay should be hidden")
	}
	if o.Locked() {
		t.Error("overlay should be unlocked")
	}
	if m.IsHovering() {
		t.Error("IsHovering should be false")
	}
}

func TestHoverEndLeavesHiddenOverlayLocked(t *testing.T) {
	m, _, _ := newReadyMarker(t, 1, 100, 100)
	m.AddHoverText("Info")
	m.LockHoverElement()

	m.OnHoverEnd()
	if !m.Overlay().Locked() {
		t.Error("a hidden overlay keeps its lock")
	}
}

// --- Hover end ---

func TestHoverEndShrinks(t *testing.T) {
	m, anim, _ := newReadyMarker(t, 1, 100, 100)
	m.OnHover(0, 0)
	anim.Update(frame)

	m.OnHoverEnd()
	if m.ScaleState() != ScaleShrinking {
		t.Errorf("ScaleState = %d, want Shrinking", m.ScaleState())
	}
	advance(anim, ScaleDuration+100*time.Millisecond)
	b, _ := m.HoverBounds()
	if m.Scale() != b.Start {
		t.Errorf("Scale = %v, want %v", m.Scale(), b.Start)
	}
}

func TestHoverEndWithoutHover(t *testing.T) {
	m, anim, _ := newReadyMarker(t, 1, 100, 100)
	var ends int
	m.On(EventHoverEnd, func(Event) { ends++ })

	m.OnHoverEnd()
	if anim.Len() != 0 {
		t.Error("no scale-down expected at the resting scale")
	}
	if ends != 0 {
		t.Errorf("hover-end events = %d, want 0", ends)
	}

	m.OnHover(1, 1)
	m.OnHoverEnd()
	m.OnHoverEnd()
	if ends != 1 {
		t.Errorf("hover-end events = %d, want 1", ends)
	}
}

// --- Click ---

func TestClickWithoutOverlayNotifies(t *testing.T) {
	m, _, _ := newReadyMarker(t, 1, 100, 100)
	var got []Event
	m.On(EventClick, func(e Event) { got = append(got, e) })

	m.OnHover(5, 6)
	m.OnClick()
	m.OnClick()

	if len(got) != 2 {
		t.Fatalf("click events = %d, want 2", len(got))
	}
	if got[0].Marker != m || got[0].X != 5 || got[0].Y != 6 {
		t.Errorf("event = %+v", got[0])
	}
}

func TestClickBeforeResolutionNotifies(t *testing.T) {
	m, _, _, _ := newPendingMarker(t, 1)
	var clicks int
	m.On(EventClick, func(Event) { clicks++ })
	m.OnClick()
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
}
