package sparrow

// AnimationEventType identifies an animation lifecycle event.
type AnimationEventType uint8

const (
	AnimationCompleted AnimationEventType = iota // a juggler dropped a completed object
	MovieCompleted                               // a movie clip reached its last frame
)

// AnimationEvent describes one lifecycle change of an Animatable.
type AnimationEvent struct {
	Type   AnimationEventType
	Key    uint32
	Target any
}

// EventSink receives animation events. The ecs package provides a
// Donburi-backed implementation.
type EventSink interface {
	EmitAnimation(event AnimationEvent)
}
