package ecs

import (
	"github.com/phanxgames/infospot"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// MarkerEventType is the Donburi event type for infospot marker events.
// Events are queued on publish; call ProcessEvents (or
// events.ProcessAllEvents) from a system to deliver them.
var MarkerEventType = events.NewEventType[infospot.Event]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventSink backed by a Donburi world.
func NewDonburiStore(world donburi.World) infospot.EventSink {
	return &donburiStore{world: world}
}

func (s *donburiStore) Emit(event infospot.Event) {
	MarkerEventType.Publish(s.world, event)
}
