package infospot

// OnHover is called by the render host while the pointer is over the marker.
// (x, y) is the marker's projected screen position. The first call of a
// hover session grows the marker and reveals a hidden overlay; every call
// moves an unlocked overlay so its bottom center sits OverlayOffset pixels
// above (x, y).
func (m *Marker) OnHover(x, y float64) {
	if m.disposed {
		return
	}
	m.hoverX, m.hoverY = x, y

	if !m.hovering {
		m.hovering = true
		m.onHoverStart()
	}

	if m.overlay == nil || m.overlay.locked {
		return
	}
	w, h := m.overlay.el.Size()
	m.overlay.moveTo(x-w/2, y-h-OverlayOffset)
}

func (m *Marker) onHoverStart() {
	if m.transitions != nil && !m.scale.Equal(m.bounds.End) {
		m.transitions.ScaleUp()
	}
	if m.overlay != nil && !m.overlay.Displayed() {
		m.overlay.setDisplayed(true)
	}
	m.emit(EventHoverStart)
}

// OnHoverEnd is called when the pointer leaves the marker. It shrinks the
// marker back to rest and hides and unlocks a displayed overlay. It is safe
// to call when no hover is in progress.
func (m *Marker) OnHoverEnd() {
	if m.disposed {
		return
	}
	was := m.hovering
	m.hovering = false

	if m.transitions != nil && !m.scale.Equal(m.bounds.Start) {
		m.transitions.ScaleDown()
	}
	if m.overlay != nil && m.overlay.Displayed() {
		m.overlay.setDisplayed(false)
		m.overlay.locked = false
	}
	if was {
		m.emit(EventHoverEnd)
	}
}

// OnClick locks the overlay in place, if there is one, and always notifies
// EventClick subscribers.
func (m *Marker) OnClick() {
	if m.disposed {
		return
	}
	if m.overlay != nil {
		m.LockHoverElement()
	}
	m.emit(EventClick)
}
