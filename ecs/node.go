package ecs

import (
	"github.com/phanxgames/sparrow"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// NodeData links an entity to a scene node.
type NodeData struct {
	Node *sparrow.Node
}

// NodeComponent holds the node of an entity created by SpawnNode.
var NodeComponent = donburi.NewComponentType[NodeData]()

var nodeQuery = donburi.NewQuery(filter.Contains(NodeComponent))

// SpawnNode creates an entity for node.
func SpawnNode(world donburi.World, node *sparrow.Node) donburi.Entity {
	e := world.Create(NodeComponent)
	NodeComponent.Get(world.Entry(e)).Node = node
	return e
}

// NodeOf returns the node of an entity, or nil when it has none.
func NodeOf(entry *donburi.Entry) *sparrow.Node {
	if !entry.HasComponent(NodeComponent) {
		return nil
	}
	return NodeComponent.Get(entry).Node
}

// EntityOf finds the entity whose NodeComponent holds target, which is
// typically the Target of an AnimationEvent.
func EntityOf(world donburi.World, target any) (donburi.Entity, bool) {
	n, ok := target.(*sparrow.Node)
	if !ok || n == nil {
		return donburi.Null, false
	}
	found, ok := donburi.Null, false
	nodeQuery.Each(world, func(entry *donburi.Entry) {
		if !ok && NodeComponent.Get(entry).Node == n {
			found, ok = entry.Entity(), true
		}
	})
	return found, ok
}
