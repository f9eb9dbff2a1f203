package ecs

import (
	"github.com/phanxgames/sparrow"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// AnimationEventType is the Donburi event type for sparrow animation events.
var AnimationEventType = events.NewEventType[sparrow.AnimationEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued on AnimationEventType until ProcessEvents runs.
func NewDonburiSink(world donburi.World) sparrow.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitAnimation(event sparrow.AnimationEvent) {
	AnimationEventType.Publish(s.world, event)
}
