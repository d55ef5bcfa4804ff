package infospot

// Animator is the central scheduler for marker transitions. The render host
// calls Update once per frame; every registered transition receives the same
// delta. There is no global animator and no wall clock: tests drive Update
// with fixed deltas.
type Animator struct {
	active []*Transition
	buf    []*Transition // snapshot reused across ticks
}

// NewAnimator creates an empty animator.
func NewAnimator() *Animator {
	return &Animator{}
}

// Update advances every registered transition by dt seconds. Transitions
// started from a callback during this tick first advance on the next tick.
func (a *Animator) Update(dt float32) {
	if len(a.active) == 0 {
		return
	}
	a.buf = append(a.buf[:0], a.active...)
	for _, t := range a.buf {
		t.update(dt)
	}
	clear(a.buf)
}

// Len returns the number of registered transitions.
func (a *Animator) Len() int {
	return len(a.active)
}

// Has reports whether t is currently registered.
func (a *Animator) Has(t *Transition) bool {
	for _, c := range a.active {
		if c == t {
			return true
		}
	}
	return false
}

func (a *Animator) add(t *Transition) {
	if a.Has(t) {
		return
	}
	a.active = append(a.active, t)
}

// remove uses copy+nil to avoid retaining a stopped transition in the
// backing array.
func (a *Animator) remove(t *Transition) {
	for i, c := range a.active {
		if c == t {
			copy(a.active[i:], a.active[i+1:])
			a.active[len(a.active)-1] = nil
			a.active = a.active[:len(a.active)-1]
			return
		}
	}
}
