package sparrow

import (
	"fmt"
	"log/slog"
)

// MaxTreeDepth bounds the number of nodes on any root-to-leaf path. AddChild
// rejects insertions that would exceed it, so the transform resolver's
// ancestor buffer never overflows.
const MaxTreeDepth = 16

// nodeIDCounter hands out node IDs.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the scene graph element. A single flat struct serves every node
// type; the type-specific state hangs off optional pointers.
//
// Only containers own children. The parent field is a non-owning
// back-reference used for lookups (Parent, Root, transform resolution);
// reassigning it never affects the lifetime of the child.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType
	Tag  int

	// Hierarchy
	parent   *Node
	children []*Node

	// Transform (local). Use the setters so the cached matrix is invalidated.
	x, y           float64
	pivotX, pivotY float64
	scaleX, scaleY float64
	rotation       float64
	alpha          float64

	local      [6]float64
	localDirty bool

	// Visibility & interaction
	Visible   bool
	Touchable bool

	// Effect overrides the shader effect while this node and its subtree draw.
	Effect *Effect

	blend    BlendMode
	hasBlend bool

	// Metadata
	UserData any

	// Type-specific state
	quad      *quadData
	text      *textData
	clip      *MovieClip
	particles *ParticleBuffer

	disposed bool
}

func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.scaleX = 1
	n.scaleY = 1
	n.alpha = 1
	n.Visible = true
	n.Touchable = true
	n.localDirty = true
}

// NewContainer creates a container node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// CreateNode builds a node of the given type with default geometry: an empty
// container, a 1x1 white quad, an untextured image, empty text, a
// single-frame clip, or an empty particle buffer of DefaultParticleCapacity.
func CreateNode(t NodeType, name string) *Node {
	switch t {
	case NodeTypeQuad:
		return NewQuad(name, 1, 1, ColorWhite)
	case NodeTypeImage:
		return NewImage(name, nil)
	case NodeTypeMovieClip:
		return NewMovieClip(name, []*Texture{nil}, DefaultClipFPS)
	case NodeTypeText:
		return NewText(name, "", nil)
	case NodeTypeParticles:
		return NewParticleBuffer(name, DefaultParticleCapacity, nil)
	default:
		return NewContainer(name)
	}
}

// --- Blend override ---

// SetBlendMode makes this node push mode onto the blend stack while it draws.
func (n *Node) SetBlendMode(mode BlendMode) {
	n.blend = mode
	n.hasBlend = true
}

// ClearBlendMode removes the blend override; the node inherits its parent's mode.
func (n *Node) ClearBlendMode() {
	n.hasBlend = false
}

// BlendMode returns the override and whether one is set.
func (n *Node) BlendMode() (BlendMode, bool) {
	return n.blend, n.hasBlend
}

// --- Tree manipulation ---

// AddChild appends child to this container.
// If child already has a parent, it is removed from that parent first.
func (n *Node) AddChild(child *Node) error {
	return n.AddChildAt(child, len(n.children))
}

// AddChildAt inserts child at index, which must lie in [0, NumChildren()].
func (n *Node) AddChildAt(child *Node, index int) error {
	if child == nil {
		return fmt.Errorf("sparrow: add child to %q: nil child: %w", n.Name, ErrInvalidArgument)
	}
	if child == n {
		return fmt.Errorf("sparrow: add %q to itself: %w", n.Name, ErrInvalidArgument)
	}
	if n.Type != NodeTypeContainer {
		return fmt.Errorf("sparrow: add child to %s node %q: %w", n.Type, n.Name, ErrInvalidArgument)
	}
	if n.disposed || child.disposed {
		return fmt.Errorf("sparrow: add child %q: disposed node: %w", child.Name, ErrInvalidArgument)
	}
	if index < 0 || index > len(n.children) {
		return fmt.Errorf("sparrow: add child %q at %d of %d: %w", child.Name, index, len(n.children), ErrIndexOutOfRange)
	}
	if isAncestor(child, n) {
		return fmt.Errorf("sparrow: add %q to its descendant %q: %w", child.Name, n.Name, ErrInvalidArgument)
	}
	if d := n.Depth() + subtreeHeight(child); d > MaxTreeDepth {
		Logger().Warn("child rejected", slog.String("parent", n.Name), slog.String("child", child.Name), slog.Int("depth", d))
		return fmt.Errorf("sparrow: add child %q: depth %d: %w", child.Name, d, ErrTreeTooDeep)
	}

	if child.parent != nil {
		wasHere := child.parent == n
		child.parent.removeChildByPtr(child)
		if wasHere && index > len(n.children) {
			index = len(n.children)
		}
	}
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	child.parent = n
	return nil
}

// RemoveChild detaches child from this container. It is a no-op if child is
// not a direct child.
func (n *Node) RemoveChild(child *Node) error {
	idx := n.ChildIndex(child)
	if idx < 0 {
		return nil
	}
	_, err := n.RemoveChildAt(idx)
	return err
}

// RemoveChildAt removes and returns the child at index.
func (n *Node) RemoveChildAt(index int) (*Node, error) {
	if index < 0 || index >= len(n.children) {
		return nil, fmt.Errorf("sparrow: remove child at %d of %d: %w", index, len(n.children), ErrIndexOutOfRange)
	}
	child := n.children[index]
	copy(n.children[index:], n.children[index+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	child.parent = nil
	return child, nil
}

// RemoveFromParent detaches this node from its parent. No-op for roots.
func (n *Node) RemoveFromParent() {
	if n.parent != nil {
		n.parent.removeChildByPtr(n)
		n.parent = nil
	}
}

// RemoveAllChildren detaches every child. Children are not disposed.
func (n *Node) RemoveAllChildren() {
	for i, child := range n.children {
		child.parent = nil
		n.children[i] = nil
	}
	n.children = n.children[:0]
}

// Children returns the child list. The returned slice must not be mutated.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at index, which must lie in [0, NumChildren()).
func (n *Node) ChildAt(index int) (*Node, error) {
	if index < 0 || index >= len(n.children) {
		return nil, fmt.Errorf("sparrow: child at %d of %d: %w", index, len(n.children), ErrIndexOutOfRange)
	}
	return n.children[index], nil
}

// ChildIndex returns the position of child, or -1.
func (n *Node) ChildIndex(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// SetChildIndex moves child to a new index among its siblings.
func (n *Node) SetChildIndex(child *Node, index int) error {
	oldIndex := n.ChildIndex(child)
	if oldIndex < 0 {
		return fmt.Errorf("sparrow: set child index: %q is not a child of %q: %w", nameOf(child), n.Name, ErrInvalidArgument)
	}
	if index < 0 || index >= len(n.children) {
		return fmt.Errorf("sparrow: set child index %d of %d: %w", index, len(n.children), ErrIndexOutOfRange)
	}
	if oldIndex == index {
		return nil
	}
	if oldIndex < index {
		copy(n.children[oldIndex:], n.children[oldIndex+1:index+1])
	} else {
		copy(n.children[index+1:], n.children[index:oldIndex])
	}
	n.children[index] = child
	return nil
}

// SwapChildren exchanges the positions of two children.
func (n *Node) SwapChildren(a, b *Node) error {
	i, j := n.ChildIndex(a), n.ChildIndex(b)
	if i < 0 || j < 0 {
		return fmt.Errorf("sparrow: swap children in %q: not a child: %w", n.Name, ErrInvalidArgument)
	}
	return n.SwapChildrenAt(i, j)
}

// SwapChildrenAt exchanges the children at two indices.
func (n *Node) SwapChildrenAt(i, j int) error {
	if i < 0 || i >= len(n.children) || j < 0 || j >= len(n.children) {
		return fmt.Errorf("sparrow: swap children %d and %d of %d: %w", i, j, len(n.children), ErrIndexOutOfRange)
	}
	n.children[i], n.children[j] = n.children[j], n.children[i]
	return nil
}

// ChildByName returns the first direct child with the given name, or nil.
func (n *Node) ChildByName(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildByTag returns the first direct child with the given tag, or nil.
func (n *Node) ChildByTag(tag int) *Node {
	for _, c := range n.children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// Contains reports whether node is n or one of its descendants.
func (n *Node) Contains(node *Node) bool {
	return node != nil && isAncestor(n, node)
}

// Parent returns the containing node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Root returns the topmost ancestor (n itself for a root).
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Depth returns the number of nodes from n up to its root, inclusive.
func (n *Node) Depth() int {
	d := 0
	for p := n; p != nil; p = p.parent {
		d++
	}
	return d
}

// --- Disposal ---

// Dispose detaches this node from its parent, releases pooled slots held by
// it and its descendants, and marks the subtree disposed.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	for _, child := range n.children {
		child.parent = nil
		child.dispose()
	}
	n.children = nil
	if n.quad != nil {
		n.quad.release()
	}
	if n.text != nil {
		n.text.release()
		n.text = nil
	}
	if n.particles != nil {
		n.particles.release()
		n.particles = nil
	}
	n.clip = nil
	n.Effect = nil
	n.UserData = nil
}

// IsDisposed reports whether Dispose has been called.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of node's ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// subtreeHeight returns the number of nodes on the longest path from n down.
func subtreeHeight(n *Node) int {
	h := 0
	for _, c := range n.children {
		if ch := subtreeHeight(c); ch > h {
			h = ch
		}
	}
	return h + 1
}

// removeChildByPtr removes child from n.children without clearing child.parent.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

func nameOf(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.Name
}
