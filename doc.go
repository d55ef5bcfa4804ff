// Package infospot provides interactive markers ("infospots") for panorama
// viewers built on [Ebitengine].
//
// A [Marker] is a billboard anchored at a point in the panorama. It resolves
// its image asynchronously, sizes itself from the image's aspect ratio, grows
// while hovered, fades in and out on [Marker.Show] and [Marker.Hide], and can
// carry a screen-space overlay that follows it while hovered and freezes in
// place when clicked.
//
// # Quick start
//
// A [Board] is the render host: it owns the markers, the transition
// scheduler and the overlay HUD.
//
//	board, err := infospot.NewBoard(infospot.BoardConfig{
//		Projector: &infospot.PanoramaProjector{FOV: 60, Width: 1280, Height: 720},
//	})
//	door, err := board.AddMarker(infospot.MarkerConfig{
//		Name:     "door",
//		Scale:    30,
//		Position: infospot.Vec3{Z: -500},
//	})
//	door.AddHoverText("Front door")
//	door.On(infospot.EventClick, func(e infospot.Event) { ... })
//
// Call [Board.Update] and [Board.Draw] from your ebiten.Game, or let [Run]
// open the window. Hit testing is left to the host; [Board.MarkerAt] covers
// the common case and [Board.TrackPointer] wires it to the mouse:
//
//	board.SetHovered(board.MarkerAt(float64(mx), float64(my)))
//
// # Lifecycle
//
// Until its visual resolves a marker is invisible and Show, Hide and hover
// scaling are silent no-ops. If the image cannot be loaded the marker ends
// in [VisualFailed] and stays hidden; subscribe to [EventLoadFailed] to
// react.
//
// # Transitions
//
// Scale uses elastic easing and overshoots; fades decelerate without
// overshoot. Growing and shrinking never run together, nor do fading in and
// out: each pair is driven by a small state machine ([ScaleState],
// [VisibilityState]) that stops one transition before starting the other.
// Visible turns true when a fade-in starts and false only when a fade-out
// finishes.
//
// Scene files ([LoadSceneFile]) and interaction scripts ([LoadScript]) make
// it possible to drive a board without code. The ecs sub-package forwards
// marker events into a Donburi world.
//
// [Ebitengine]: https://ebitengine.org
package infospot
