// Package ecs connects sparrow stages to a [Donburi] world.
//
// [NewDonburiSink] publishes juggler and movie clip events as typed Donburi
// events. Subscribe to [AnimationEventType] in your systems to receive them:
//
//	sink := ecs.NewDonburiSink(world)
//	stage.Juggler().SetEventSink(sink)
//
// [SpawnNode] creates an entity carrying a [NodeComponent] so systems can
// query the scene nodes they drive.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
