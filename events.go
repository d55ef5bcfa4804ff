package infospot

import "github.com/google/uuid"

// Event is delivered to marker subscribers and to the board's EventSink.
type Event struct {
	Type     EventType
	Marker   *Marker
	MarkerID uuid.UUID
	Name     string
	// X and Y are the last hover coordinates the marker received.
	X, Y float64
	// Err is set for EventLoadFailed.
	Err error
}

// EventSink receives every event emitted by a board's markers. The ecs
// package bridges it into a donburi world.
type EventSink interface {
	Emit(event Event)
}

// --- Handler registry ---

const eventTypeCount = int(EventLoadFailed) + 1

type eventHandler struct {
	id uint32
	fn func(Event)
}

type handlerRegistry struct {
	handlers [eventTypeCount][]eventHandler
	nextID   uint32
}

// CallbackHandle allows removing a registered marker callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil || int(h.event) >= eventTypeCount {
		return
	}
	s := h.reg.handlers[h.event]
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = eventHandler{}
			h.reg.handlers[h.event] = s[:len(s)-1]
			return
		}
	}
}

func (r *handlerRegistry) add(evt EventType, fn func(Event)) CallbackHandle {
	if fn == nil || int(evt) >= eventTypeCount {
		return CallbackHandle{}
	}
	r.nextID++
	id := r.nextID
	r.handlers[evt] = append(r.handlers[evt], eventHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: r, event: evt}
}

// dispatch iterates a copy so handlers may remove themselves.
func (r *handlerRegistry) dispatch(e Event) {
	hs := r.handlers[e.Type]
	if len(hs) == 0 {
		return
	}
	snapshot := make([]eventHandler, len(hs))
	copy(snapshot, hs)
	for _, h := range snapshot {
		h.fn(e)
	}
}

func (r *handlerRegistry) reset() {
	for i := range r.handlers {
		r.handlers[i] = nil
	}
}

// On registers fn for events of the given type emitted by this marker.
// Subscribing to EventClick is how external code observes clicks.
func (m *Marker) On(evt EventType, fn func(Event)) CallbackHandle {
	return m.handlers.add(evt, fn)
}

func (m *Marker) emit(t EventType) {
	m.emitErr(t, nil)
}

func (m *Marker) emitErr(t EventType, err error) {
	e := Event{
		Type:     t,
		Marker:   m,
		MarkerID: m.ID,
		Name:     m.Name,
		X:        m.hoverX,
		Y:        m.hoverY,
		Err:      err,
	}
	m.handlers.dispatch(e)
	if m.sink != nil {
		m.sink.Emit(e)
	}
}
