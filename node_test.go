package sparrow

import (
	"errors"
	"testing"
)

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func assertChildren(t *testing.T, parent *Node, want ...string) {
	t.Helper()
	got := names(parent.Children())
	if len(got) != len(want) {
		t.Fatalf("children = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("children = %v, want %v", got, want)
		}
	}
}

func TestNewContainerDefaults(t *testing.T) {
	n := NewContainer("c")
	if n.Type != NodeTypeContainer {
		t.Errorf("Type = %s, want container", n.Type)
	}
	if !n.Visible || !n.Touchable {
		t.Error("new node should be visible and touchable")
	}
	assertNear(t, "ScaleX", n.ScaleX(), 1)
	assertNear(t, "ScaleY", n.ScaleY(), 1)
	assertNear(t, "Alpha", n.Alpha(), 1)
}

func TestNodeIDsUnique(t *testing.T) {
	a, b := NewContainer("a"), NewContainer("b")
	if a.ID == b.ID {
		t.Errorf("IDs collide: %d", a.ID)
	}
}

func TestCreateNodeTypes(t *testing.T) {
	for _, typ := range []NodeType{NodeTypeContainer, NodeTypeQuad, NodeTypeImage, NodeTypeMovieClip, NodeTypeText, NodeTypeParticles} {
		n := CreateNode(typ, typ.String())
		if n.Type != typ {
			t.Errorf("CreateNode(%s).Type = %s", typ, n.Type)
		}
		n.Dispose()
	}
}

func TestAddChildAppendsAndSetsParent(t *testing.T) {
	root := NewContainer("root")
	a, b := NewContainer("a"), NewContainer("b")
	_ = root.AddChild(a)
	_ = root.AddChild(b)
	assertChildren(t, root, "a", "b")
	if a.Parent() != root {
		t.Error("parent not set")
	}
}

func TestAddChildAt(t *testing.T) {
	root := NewContainer("root")
	_ = root.AddChild(NewContainer("a"))
	_ = root.AddChild(NewContainer("c"))
	if err := root.AddChildAt(NewContainer("b"), 1); err != nil {
		t.Fatal(err)
	}
	assertChildren(t, root, "a", "b", "c")

	if err := root.AddChildAt(NewContainer("x"), 5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
	if err := root.AddChildAt(NewContainer("x"), -1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestAddChildReparents(t *testing.T) {
	p1, p2 := NewContainer("p1"), NewContainer("p2")
	child := NewContainer("child")
	_ = p1.AddChild(child)
	_ = p2.AddChild(child)
	if p1.NumChildren() != 0 {
		t.Errorf("old parent still has %d children", p1.NumChildren())
	}
	if child.Parent() != p2 {
		t.Error("child not moved")
	}
}

func TestAddChildToSameParentMovesToEnd(t *testing.T) {
	root := NewContainer("root")
	a, b := NewContainer("a"), NewContainer("b")
	_ = root.AddChild(a)
	_ = root.AddChild(b)
	if err := root.AddChild(a); err != nil {
		t.Fatal(err)
	}
	assertChildren(t, root, "b", "a")
}

func TestAddChildErrors(t *testing.T) {
	root := NewContainer("root")
	child := NewContainer("child")
	_ = root.AddChild(child)
	quad := NewQuad("quad", 1, 1, ColorWhite)
	defer quad.Dispose()

	tests := []struct {
		name   string
		parent *Node
		child  *Node
		want   error
	}{
		{"nil", root, nil, ErrInvalidArgument},
		{"self", root, root, ErrInvalidArgument},
		{"ancestor", child, root, ErrInvalidArgument},
		{"leaf parent", quad, NewContainer("x"), ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.parent.AddChild(tt.child); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	assertChildren(t, root, "child")
}

func TestAddChildDepthLimit(t *testing.T) {
	root := NewContainer("root")
	cur := root
	for i := 1; i < MaxTreeDepth; i++ {
		next := NewContainer("n")
		if err := cur.AddChild(next); err != nil {
			t.Fatalf("depth %d: %v", i+1, err)
		}
		cur = next
	}
	if d := cur.Depth(); d != MaxTreeDepth {
		t.Fatalf("Depth = %d, want %d", d, MaxTreeDepth)
	}
	err := cur.AddChild(NewContainer("too deep"))
	if !errors.Is(err, ErrTreeTooDeep) || !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrTreeTooDeep", err)
	}

	// A two-level subtree counts with its full height.
	sub := NewContainer("sub")
	_ = sub.AddChild(NewContainer("leaf"))
	if err := cur.Parent().AddChild(sub); !errors.Is(err, ErrTreeTooDeep) {
		t.Errorf("subtree err = %v, want ErrTreeTooDeep", err)
	}
}

func TestRemoveChild(t *testing.T) {
	root := NewContainer("root")
	a, b := NewContainer("a"), NewContainer("b")
	_ = root.AddChild(a)
	_ = root.AddChild(b)
	if err := root.RemoveChild(a); err != nil {
		t.Fatal(err)
	}
	assertChildren(t, root, "b")
	if a.Parent() != nil {
		t.Error("removed child kept its parent")
	}
	if err := root.RemoveChild(NewContainer("stranger")); err != nil {
		t.Errorf("removing a non-child: %v", err)
	}
}

func TestRemoveChildAt(t *testing.T) {
	root := NewContainer("root")
	_ = root.AddChild(NewContainer("a"))
	_ = root.AddChild(NewContainer("b"))
	got, err := root.RemoveChildAt(0)
	if err != nil || got.Name != "a" {
		t.Fatalf("RemoveChildAt(0) = %v, %v", nameOf(got), err)
	}
	if _, err := root.RemoveChildAt(1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestRemoveFromParentAndAll(t *testing.T) {
	root := NewContainer("root")
	a, b := NewContainer("a"), NewContainer("b")
	_ = root.AddChild(a)
	_ = root.AddChild(b)
	a.RemoveFromParent()
	assertChildren(t, root, "b")
	root.RemoveAllChildren()
	if root.NumChildren() != 0 || b.Parent() != nil {
		t.Error("RemoveAllChildren left children attached")
	}
	root.RemoveFromParent() // no-op on a root
}

func TestChildAccessors(t *testing.T) {
	root := NewContainer("root")
	a, b := NewContainer("a"), NewContainer("b")
	b.Tag = 7
	_ = root.AddChild(a)
	_ = root.AddChild(b)

	if got, err := root.ChildAt(1); err != nil || got != b {
		t.Errorf("ChildAt(1) = %v, %v", nameOf(got), err)
	}
	if _, err := root.ChildAt(2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("ChildAt(2) err = %v", err)
	}
	if root.ChildIndex(b) != 1 || root.ChildIndex(root) != -1 {
		t.Error("ChildIndex")
	}
	if root.ChildByName("a") != a || root.ChildByName("z") != nil {
		t.Error("ChildByName")
	}
	if root.ChildByTag(7) != b || root.ChildByTag(8) != nil {
		t.Error("ChildByTag")
	}
}

func TestSetChildIndex(t *testing.T) {
	root := NewContainer("root")
	a, b, c := NewContainer("a"), NewContainer("b"), NewContainer("c")
	_ = root.AddChild(a)
	_ = root.AddChild(b)
	_ = root.AddChild(c)

	_ = root.SetChildIndex(a, 2)
	assertChildren(t, root, "b", "c", "a")
	_ = root.SetChildIndex(a, 0)
	assertChildren(t, root, "a", "b", "c")

	if err := root.SetChildIndex(a, 3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
	if err := root.SetChildIndex(NewContainer("x"), 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestSwapChildren(t *testing.T) {
	root := NewContainer("root")
	a, b, c := NewContainer("a"), NewContainer("b"), NewContainer("c")
	_ = root.AddChild(a)
	_ = root.AddChild(b)
	_ = root.AddChild(c)
	_ = root.SwapChildren(a, c)
	assertChildren(t, root, "c", "b", "a")
	if err := root.SwapChildrenAt(0, 3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
	if err := root.SwapChildren(a, NewContainer("x")); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestContainsRootDepth(t *testing.T) {
	root, a, _, c := buildChain(t)
	if !root.Contains(c) || !a.Contains(a) || c.Contains(a) || root.Contains(nil) {
		t.Error("Contains")
	}
	if c.Root() != root || root.Root() != root {
		t.Error("Root")
	}
	if c.Depth() != 4 {
		t.Errorf("Depth = %d, want 4", c.Depth())
	}
}

func TestDisposeDetachesSubtree(t *testing.T) {
	root := NewContainer("root")
	sub := NewContainer("sub")
	leaf := NewContainer("leaf")
	_ = root.AddChild(sub)
	_ = sub.AddChild(leaf)

	sub.Dispose()
	if root.NumChildren() != 0 {
		t.Error("disposed node still attached")
	}
	if !sub.IsDisposed() || !leaf.IsDisposed() {
		t.Error("subtree not marked disposed")
	}
	if leaf.Parent() != nil {
		t.Error("disposed child kept its parent")
	}
	if err := root.AddChild(sub); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("re-adding a disposed node: err = %v", err)
	}
	sub.Dispose() // second call is a no-op
}

func TestDisposeReleasesPooledQuads(t *testing.T) {
	withVertexPool(t, 4)
	root := NewContainer("root")
	for range 3 {
		_ = root.AddChild(NewQuad("q", 1, 1, ColorWhite))
	}
	if got := Pool(PoolVertices).InUse(); got != 3 {
		t.Fatalf("InUse = %d, want 3", got)
	}
	root.Dispose()
	if got := Pool(PoolVertices).InUse(); got != 0 {
		t.Errorf("InUse after Dispose = %d, want 0", got)
	}
}

func TestBlendOverride(t *testing.T) {
	n := NewContainer("n")
	if _, ok := n.BlendMode(); ok {
		t.Error("new node has a blend override")
	}
	n.SetBlendMode(BlendAdd)
	if m, ok := n.BlendMode(); !ok || m != BlendAdd {
		t.Errorf("BlendMode = %v, %v", m, ok)
	}
	n.ClearBlendMode()
	if _, ok := n.BlendMode(); ok {
		t.Error("override survived ClearBlendMode")
	}
}
