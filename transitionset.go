package infospot

import "time"

// HoverScaleBounds are the resting and hovered scales of a marker, derived
// once from the visual's aspect ratio and the configured base scale.
type HoverScaleBounds struct {
	Start Vec3
	End   Vec3
}

func computeHoverBounds(aspect, base float64) HoverScaleBounds {
	start := Vec3{aspect * base, base, 1}
	end := start.Mul(HoverScaleFactor)
	end.Z = 1
	return HoverScaleBounds{Start: start, End: end}
}

// --- Transition tables ---

type scaleInput uint8

const (
	scaleGrow scaleInput = iota
	scaleShrink
	scaleSettle
)

// scaleTable maps (state, input) to the next scale state. Entering Growing
// or Shrinking is the only place scale transitions are started, and each
// entry stops the opposite transition first.
var scaleTable = [3][3]ScaleState{
	ScaleAtRest:    {scaleGrow: ScaleGrowing, scaleShrink: ScaleShrinking, scaleSettle: ScaleAtRest},
	ScaleGrowing:   {scaleGrow: ScaleGrowing, scaleShrink: ScaleShrinking, scaleSettle: ScaleAtRest},
	ScaleShrinking: {scaleGrow: ScaleGrowing, scaleShrink: ScaleShrinking, scaleSettle: ScaleAtRest},
}

type visibilityInput uint8

const (
	visShow visibilityInput = iota
	visHide
	visFadedIn
	visFadedOut
)

var visibilityTable = [4][4]VisibilityState{
	VisibilityHidden:    {visShow: VisibilityFadingIn, visHide: VisibilityFadingOut, visFadedIn: VisibilityHidden, visFadedOut: VisibilityHidden},
	VisibilityFadingIn:  {visShow: VisibilityFadingIn, visHide: VisibilityFadingOut, visFadedIn: VisibilityShown, visFadedOut: VisibilityFadingIn},
	VisibilityShown:     {visShow: VisibilityFadingIn, visHide: VisibilityFadingOut, visFadedIn: VisibilityShown, visFadedOut: VisibilityShown},
	VisibilityFadingOut: {visShow: VisibilityFadingIn, visHide: VisibilityFadingOut, visFadedIn: VisibilityFadingOut, visFadedOut: VisibilityHidden},
}

// --- TransitionSet ---

// TransitionSet holds the four transitions of a resolved marker. A nil
// *TransitionSet is valid: every method is a no-op, which is what a marker
// whose visual has not resolved exposes.
type TransitionSet struct {
	owner      *Marker
	scaleUp    *Transition
	scaleDown  *Transition
	fadeIn     *Transition
	fadeOut    *Transition
	scale      ScaleState
	visibility VisibilityState
}

func newTransitionSet(m *Marker, anim *Animator, bounds HoverScaleBounds, fade time.Duration) *TransitionSet {
	s := &TransitionSet{owner: m}

	s.scaleUp = newTransition(anim, m, PropertyScale, [2]float64{bounds.End.X, bounds.End.Y}, ScaleDuration, ScaleEasing)
	s.scaleDown = newTransition(anim, m, PropertyScale, [2]float64{bounds.Start.X, bounds.Start.Y}, ScaleDuration, ScaleEasing)
	s.fadeIn = newTransition(anim, m, PropertyOpacity, [2]float64{1}, fade, FadeEasing)
	s.fadeOut = newTransition(anim, m, PropertyOpacity, [2]float64{0}, fade, FadeEasing)

	s.scaleUp.OnComplete = func() { s.scale = scaleTable[s.scale][scaleSettle] }
	s.scaleDown.OnComplete = func() { s.scale = scaleTable[s.scale][scaleSettle] }

	// visible flips true as the fade starts so the rise in opacity is seen,
	// and flips false only once the fade-out has fully finished.
	s.fadeIn.OnStart = func() { m.visible = true }
	s.fadeIn.OnComplete = func() {
		s.visibility = visibilityTable[s.visibility][visFadedIn]
		m.emit(EventShown)
	}
	s.fadeOut.OnComplete = func() {
		m.visible = false
		s.visibility = visibilityTable[s.visibility][visFadedOut]
		m.emit(EventHidden)
	}
	return s
}

// ScaleUp grows the owner toward its hovered scale.
func (s *TransitionSet) ScaleUp() {
	if s == nil {
		return
	}
	s.fireScale(scaleGrow)
}

// ScaleDown shrinks the owner back to its resting scale.
func (s *TransitionSet) ScaleDown() {
	if s == nil {
		return
	}
	s.fireScale(scaleShrink)
}

// FadeIn starts raising opacity to 1 after delay.
func (s *TransitionSet) FadeIn(delay time.Duration) {
	if s == nil {
		return
	}
	s.fireVisibility(visShow, delay)
}

// FadeOut starts lowering opacity to 0 after delay.
func (s *TransitionSet) FadeOut(delay time.Duration) {
	if s == nil {
		return
	}
	s.fireVisibility(visHide, delay)
}

// StopAll deregisters every transition, freezing the owner where it is.
func (s *TransitionSet) StopAll() {
	if s == nil {
		return
	}
	s.scaleUp.Stop()
	s.scaleDown.Stop()
	s.fadeIn.Stop()
	s.fadeOut.Stop()
	s.scale = ScaleAtRest
	if s.owner.visible {
		s.visibility = VisibilityShown
	} else {
		s.visibility = VisibilityHidden
	}
}

// ScaleState returns the current scale state. AtRest for a nil set.
func (s *TransitionSet) ScaleState() ScaleState {
	if s == nil {
		return ScaleAtRest
	}
	return s.scale
}

// VisibilityState returns the current visibility state. Hidden for a nil set.
func (s *TransitionSet) VisibilityState() VisibilityState {
	if s == nil {
		return VisibilityHidden
	}
	return s.visibility
}

// Transitions returns scaleUp, scaleDown, fadeIn and fadeOut, or nils for a
// nil set.
func (s *TransitionSet) Transitions() (scaleUp, scaleDown, fadeIn, fadeOut *Transition) {
	if s == nil {
		return nil, nil, nil, nil
	}
	return s.scaleUp, s.scaleDown, s.fadeIn, s.fadeOut
}

func (s *TransitionSet) fireScale(in scaleInput) {
	next := scaleTable[s.scale][in]
	switch next {
	case ScaleGrowing:
		s.scaleDown.Stop()
		s.scaleUp.Start()
	case ScaleShrinking:
		s.scaleUp.Stop()
		s.scaleDown.Start()
	}
	s.scale = next
}

func (s *TransitionSet) fireVisibility(in visibilityInput, delay time.Duration) {
	next := visibilityTable[s.visibility][in]
	switch next {
	case VisibilityFadingIn:
		s.fadeOut.Stop()
		s.fadeIn.Delay(delay).Start()
	case VisibilityFadingOut:
		s.fadeIn.Stop()
		s.fadeOut.Delay(delay).Start()
	}
	s.visibility = next
}
