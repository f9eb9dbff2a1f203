package sparrow

import (
	"math"
	"testing"
)

func TestQuadBoundsInParent(t *testing.T) {
	root := NewContainer("root")
	q := NewQuad("q", 4, 2, ColorWhite)
	defer q.Dispose()
	q.SetPosition(10, 20)
	q.SetRotation(math.Pi / 2)
	_ = root.AddChild(q)

	assertRect(t, "rotated", q.Bounds(), Rect{X: 8, Y: 20, Width: 2, Height: 4})
	r, err := q.BoundsInSpace(q)
	if err != nil {
		t.Fatal(err)
	}
	assertRect(t, "self", r, Rect{Width: 4, Height: 2})
}

func TestContainerBoundsUnion(t *testing.T) {
	root := NewContainer("root")
	a := NewQuad("a", 10, 10, ColorWhite)
	b := NewQuad("b", 5, 5, ColorWhite)
	defer a.Dispose()
	defer b.Dispose()
	b.SetPosition(20, 30)
	_ = root.AddChild(a)
	_ = root.AddChild(b)

	r, err := root.BoundsInSpace(root)
	if err != nil {
		t.Fatal(err)
	}
	assertRect(t, "union", r, Rect{Width: 25, Height: 35})
}

func TestContainerBoundsSingleChildShortcut(t *testing.T) {
	root := NewContainer("root")
	box := NewContainer("box")
	box.SetPosition(100, 0)
	q := NewQuad("q", 3, 3, ColorWhite)
	defer q.Dispose()
	q.SetPosition(1, 1)
	_ = root.AddChild(box)
	_ = box.AddChild(q)

	want, _ := q.BoundsInSpace(root)
	got, _ := box.BoundsInSpace(root)
	if got != want {
		t.Errorf("single child bounds = %+v, want %+v", got, want)
	}
	assertRect(t, "child", got, Rect{X: 101, Y: 1, Width: 3, Height: 3})
}

func TestEmptyContainerBounds(t *testing.T) {
	root := NewContainer("root")
	box := NewContainer("box")
	box.SetPosition(5, 7)
	_ = root.AddChild(box)
	assertRect(t, "empty", box.Bounds(), Rect{X: 5, Y: 7})
}

func TestBoundsNotConnected(t *testing.T) {
	q := NewQuad("q", 1, 1, ColorWhite)
	defer q.Dispose()
	if _, err := q.BoundsInSpace(NewContainer("elsewhere")); err == nil {
		t.Error("expected an error for unrelated target")
	}
}

func TestSetWidthAndHeight(t *testing.T) {
	q := NewQuad("q", 4, 2, ColorWhite)
	defer q.Dispose()
	q.SetWidth(8)
	q.SetHeight(1)
	assertNear(t, "ScaleX", q.ScaleX(), 2)
	assertNear(t, "ScaleY", q.ScaleY(), 0.5)
	assertNear(t, "Width", q.Width(), 8)

	empty := NewContainer("empty")
	empty.SetWidth(10)
	assertNear(t, "empty ScaleX", empty.ScaleX(), 1)
}

func TestHitTestPoint(t *testing.T) {
	root := NewContainer("root")
	back := NewQuad("back", 100, 100, ColorWhite)
	front := NewQuad("front", 10, 10, ColorWhite)
	defer back.Dispose()
	defer front.Dispose()
	front.SetPosition(50, 50)
	_ = root.AddChild(back)
	_ = root.AddChild(front)

	if got := root.HitTestPoint(Vec2{55, 55}, true); got != front {
		t.Errorf("front hit = %s", nameOf(got))
	}
	if got := root.HitTestPoint(Vec2{5, 5}, true); got != back {
		t.Errorf("back hit = %s", nameOf(got))
	}
	if got := root.HitTestPoint(Vec2{200, 5}, true); got != nil {
		t.Errorf("miss hit = %s", nameOf(got))
	}

	front.Touchable = false
	if got := root.HitTestPoint(Vec2{55, 55}, true); got != back {
		t.Errorf("untouchable front: hit = %s", nameOf(got))
	}
	if got := root.HitTestPoint(Vec2{55, 55}, false); got != front {
		t.Errorf("non-touch query: hit = %s", nameOf(got))
	}

	root.Visible = false
	if got := root.HitTestPoint(Vec2{5, 5}, true); got != nil {
		t.Errorf("invisible root: hit = %s", nameOf(got))
	}
}

func TestHitTestTransformedChild(t *testing.T) {
	root := NewContainer("root")
	q := NewQuad("q", 10, 10, ColorWhite)
	defer q.Dispose()
	q.SetPosition(100, 0)
	q.SetScale(2, 2)
	_ = root.AddChild(q)

	if got := root.HitTestPoint(Vec2{119, 19}, true); got != q {
		t.Errorf("inside scaled quad: hit = %s", nameOf(got))
	}
	if got := root.HitTestPoint(Vec2{121, 5}, true); got != nil {
		t.Errorf("outside scaled quad: hit = %s", nameOf(got))
	}
}

func TestHitTestZeroScaleChild(t *testing.T) {
	root := NewContainer("root")
	q := NewQuad("q", 10, 10, ColorWhite)
	defer q.Dispose()
	_ = root.AddChild(q)
	q.SetScale(0, 0)

	if got := root.HitTestPoint(Vec2{5, 5}, true); got != nil {
		t.Errorf("collapsed quad hit = %s", nameOf(got))
	}
	b, _ := q.BoundsInSpace(root)
	assertRect(t, "bounds", b, Rect{})

	q.SetScale(1, 1)
	if got := root.HitTestPoint(Vec2{5, 5}, true); got != q {
		t.Errorf("restored quad hit = %s", nameOf(got))
	}
}

func TestRectHelpers(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	b := Rect{5, 5, 10, 10}
	if !a.Intersects(b) || a.Intersects(Rect{20, 20, 1, 1}) {
		t.Error("Intersects")
	}
	assertRect(t, "union", a.Union(b), Rect{0, 0, 15, 15})
	if !a.Contains(10, 10) || a.Contains(11, 0) {
		t.Error("Contains")
	}
	if !(Rect{1, 1, 0, 5}).IsEmpty() {
		t.Error("IsEmpty")
	}
}
