package infospot

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// TrackPointer hit-tests the mouse cursor against the visible markers,
// moves hover engagement to the one under it and forwards a left-button
// release as a click. It does nothing while a script is replaying.
func (b *Board) TrackPointer() {
	if b.runner != nil && !b.runner.Done() {
		return
	}
	mx, my := ebiten.CursorPosition()
	b.pointAt(float64(mx), float64(my), inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft))
}

// pointAt is the device-independent part of TrackPointer.
func (b *Board) pointAt(x, y float64, released bool) {
	hit := b.MarkerAt(x, y)
	b.SetHovered(hit)
	if released {
		b.Click(hit)
	}
}
