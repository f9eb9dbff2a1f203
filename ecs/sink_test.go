package ecs

import (
	"testing"

	"github.com/phanxgames/sparrow"

	"github.com/yohamta/donburi"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	if NewDonburiSink(world) == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_JugglerCompletion(t *testing.T) {
	world := donburi.NewWorld()
	node := sparrow.NewContainer("mover")
	entity := SpawnNode(world, node)

	var received []sparrow.AnimationEvent
	AnimationEventType.Subscribe(world, func(w donburi.World, e sparrow.AnimationEvent) {
		received = append(received, e)
	})

	j := sparrow.NewJuggler()
	j.SetEventSink(NewDonburiSink(world))
	tw := sparrow.TweenPosition(node, 10, 0, 1, nil)
	j.Add(tw)
	j.AdvanceTime(0.5)
	j.AdvanceTime(0.6)

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("events delivered before ProcessEvents: %d", len(received))
	}
	AnimationEventType.ProcessEvents(world)

	if len(received) != 1 {
		t.Fatalf("expected 1 event, got %d", len(received))
	}
	e := received[0]
	if e.Type != sparrow.AnimationCompleted || e.Key != tw.AnimKey() {
		t.Errorf("event: %+v", e)
	}
	got, ok := EntityOf(world, e.Target)
	if !ok || got != entity {
		t.Errorf("EntityOf = %v, %v; want %v", got, ok, entity)
	}
	if node.X() != 10 {
		t.Errorf("X = %v, want 10", node.X())
	}
}

func TestNodeOf(t *testing.T) {
	world := donburi.NewWorld()
	node := sparrow.NewContainer("n")
	e := SpawnNode(world, node)
	if got := NodeOf(world.Entry(e)); got != node {
		t.Errorf("NodeOf = %v, want %v", got, node)
	}
	bare := world.Create()
	if got := NodeOf(world.Entry(bare)); got != nil {
		t.Errorf("NodeOf(bare) = %v, want nil", got)
	}
	if _, ok := EntityOf(world, "not a node"); ok {
		t.Error("EntityOf matched a non-node target")
	}
}
