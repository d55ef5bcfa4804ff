// Package ecs bridges infospot marker events into ECS worlds.
//
// The adapter is [NewDonburiStore], which publishes every marker event
// (click, hover start/end, shown, hidden, resolved, load failed) into a
// [Donburi] world as a typed event. Subscribe to [MarkerEventType] in your
// ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	board.SetEventSink(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
