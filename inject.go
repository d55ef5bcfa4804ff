package infospot

import "time"

type syntheticKind uint8

const (
	syntheticHover syntheticKind = iota
	syntheticLeave
	syntheticClick
	syntheticShow
	syntheticHide
)

// syntheticEvent is a queued interaction addressed to a marker by name.
type syntheticEvent struct {
	kind  syntheticKind
	name  string
	x, y  float64
	delay time.Duration
}

// InjectHover queues a hover over the named marker at screen (x, y). When
// consumed it moves hover engagement to that marker and delivers the
// coordinates. The event is consumed on the next Update.
func (b *Board) InjectHover(name string, x, y float64) {
	b.injectQueue = append(b.injectQueue, syntheticEvent{kind: syntheticHover, name: name, x: x, y: y})
}

// InjectLeave queues the end of hover engagement.
func (b *Board) InjectLeave() {
	b.injectQueue = append(b.injectQueue, syntheticEvent{kind: syntheticLeave})
}

// InjectClick queues a click on the named marker.
func (b *Board) InjectClick(name string) {
	b.injectQueue = append(b.injectQueue, syntheticEvent{kind: syntheticClick, name: name})
}

// InjectShow queues Show on the named marker, or on all markers when name
// is empty.
func (b *Board) InjectShow(name string, delay time.Duration) {
	b.injectQueue = append(b.injectQueue, syntheticEvent{kind: syntheticShow, name: name, delay: delay})
}

// InjectHide queues Hide on the named marker, or on all markers when name
// is empty.
func (b *Board) InjectHide(name string, delay time.Duration) {
	b.injectQueue = append(b.injectQueue, syntheticEvent{kind: syntheticHide, name: name, delay: delay})
}

// InjectHoverPath queues a hover that glides from (fromX, fromY) to
// (toX, toY) over the given number of frames, as a projected marker would
// while the camera pans. Minimum frames is 1.
func (b *Board) InjectHoverPath(name string, fromX, fromY, toX, toY float64, frames int) {
	if frames < 1 {
		frames = 1
	}
	if frames == 1 {
		b.InjectHover(name, toX, toY)
		return
	}
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(frames-1)
		b.InjectHover(name, fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
}

// pendingInjections reports how many synthetic events are queued.
func (b *Board) pendingInjections() int {
	return len(b.injectQueue)
}

// processInjected pops one synthetic event and applies it. Returns true if
// an event was consumed.
func (b *Board) processInjected() bool {
	if len(b.injectQueue) == 0 {
		return false
	}
	evt := b.injectQueue[0]
	copy(b.injectQueue, b.injectQueue[1:])
	b.injectQueue = b.injectQueue[:len(b.injectQueue)-1]

	switch evt.kind {
	case syntheticLeave:
		b.SetHovered(nil)
	case syntheticShow:
		b.forTarget(evt.name, func(m *Marker) { m.Show(evt.delay) })
	case syntheticHide:
		b.forTarget(evt.name, func(m *Marker) { m.Hide(evt.delay) })
	case syntheticHover:
		m := b.lookup(evt.name)
		if m == nil {
			return true
		}
		if b.hovered != m {
			if b.hovered != nil {
				b.hovered.OnHoverEnd()
			}
			b.hovered = m
		}
		m.OnHover(evt.x, evt.y)
	case syntheticClick:
		b.Click(b.lookup(evt.name))
	}
	return true
}

func (b *Board) lookup(name string) *Marker {
	m := b.byName[name]
	if m == nil {
		b.logger.Warn("unknown marker", "marker", name)
	}
	return m
}

func (b *Board) forTarget(name string, fn func(*Marker)) {
	if name == "" {
		for _, m := range b.markers {
			fn(m)
		}
		return
	}
	if m := b.lookup(name); m != nil {
		fn(m)
	}
}
