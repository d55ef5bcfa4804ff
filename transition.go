package infospot

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Property selects which marker field a Transition writes.
type Property uint8

const (
	PropertyScale   Property = iota // scale X and Y; Z is never animated
	PropertyOpacity                 // billboard opacity
)

// Easing curves. Scale transitions overshoot and settle; fades decelerate
// without overshooting.
var (
	ScaleEasing ease.TweenFunc = ease.OutElastic
	FadeEasing  ease.TweenFunc = ease.OutQuart
)

// Transition is a descriptor for one time-bounded interpolation of a marker
// property. It does nothing on its own: Start registers it with its Animator,
// which advances it every tick until it completes or is stopped.
//
// Start values are captured when the delay elapses, not when Start is called,
// so a delayed fade begins from whatever opacity the marker has by then.
type Transition struct {
	owner    *Marker
	prop     Property
	to       [2]float64
	duration float32 // seconds
	delay    float32 // seconds
	easing   ease.TweenFunc

	// OnStart runs once the delay has elapsed, before the first interpolated
	// value is written. OnComplete runs after the target has been written.
	OnStart    func()
	OnComplete func()

	anim    *Animator
	tweens  [2]*gween.Tween
	count   int
	waiting float32
	started bool
	running bool
}

func newTransition(anim *Animator, owner *Marker, prop Property, to [2]float64, d time.Duration, fn ease.TweenFunc) *Transition {
	t := &Transition{
		owner:    owner,
		prop:     prop,
		to:       to,
		duration: seconds(d),
		easing:   fn,
		anim:     anim,
		count:    1,
	}
	if prop == PropertyScale {
		t.count = 2
	}
	return t
}

// Delay sets the wait applied by the next Start. Negative values are
// treated as zero.
func (t *Transition) Delay(d time.Duration) *Transition {
	t.delay = max(seconds(d), 0)
	return t
}

// Start registers the transition with its animator. Starting a running
// transition restarts it from the current property values.
func (t *Transition) Start() {
	t.waiting = t.delay
	t.started = false
	t.running = true
	t.anim.add(t)
}

// Stop deregisters the transition immediately. The property keeps its
// current interpolated value. No-op if not running.
func (t *Transition) Stop() {
	if !t.running {
		return
	}
	t.running = false
	t.started = false
	t.anim.remove(t)
}

// Running reports whether the transition is registered with its animator,
// including while its delay is still counting down.
func (t *Transition) Running() bool {
	return t.running
}

// Started reports whether a running transition has passed its delay.
func (t *Transition) Started() bool {
	return t.running && t.started
}

// Target returns the values the transition animates toward.
func (t *Transition) Target() (float64, float64) {
	return t.to[0], t.to[1]
}

// update advances the transition by dt seconds. Called by Animator.Update.
func (t *Transition) update(dt float32) {
	if !t.running {
		return
	}
	if !t.started {
		if t.waiting > dt {
			t.waiting -= dt
			return
		}
		dt -= t.waiting
		t.waiting = 0
		t.begin()
		// OnStart may have stopped or restarted us.
		if !t.running || !t.started {
			return
		}
	}

	if t.duration <= 0 {
		t.finish()
		return
	}

	finished := true
	for i := 0; i < t.count; i++ {
		val, done := t.tweens[i].Update(dt)
		t.write(i, float64(val))
		if !done {
			finished = false
		}
	}
	if finished {
		t.finish()
	}
}

func (t *Transition) begin() {
	t.started = true
	for i := 0; i < t.count; i++ {
		t.tweens[i] = gween.New(float32(t.read(i)), float32(t.to[i]), t.duration, t.easing)
	}
	if t.OnStart != nil {
		t.OnStart()
	}
}

// finish writes the exact targets so that equality checks against the hover
// bounds hold after float32 interpolation.
func (t *Transition) finish() {
	for i := 0; i < t.count; i++ {
		t.write(i, t.to[i])
	}
	t.running = false
	t.started = false
	t.anim.remove(t)
	if t.OnComplete != nil {
		t.OnComplete()
	}
}

func (t *Transition) read(i int) float64 {
	m := t.owner
	switch t.prop {
	case PropertyScale:
		if i == 0 {
			return m.scale.X
		}
		return m.scale.Y
	default:
		return m.opacity
	}
}

func (t *Transition) write(i int, v float64) {
	m := t.owner
	switch t.prop {
	case PropertyScale:
		if i == 0 {
			m.scale.X = v
		} else {
			m.scale.Y = v
		}
	default:
		m.opacity = v
	}
}

func seconds(d time.Duration) float32 {
	return float32(d.Seconds())
}
