package sparrow

import "math"

// BoundsInSpace returns the axis-aligned box, in target's space, enclosing
// the node's geometry. A nil target means global space.
//
// A container with one child returns that child's bounds; an empty container
// returns a zero-size box at its transformed origin.
func (n *Node) BoundsInSpace(target *Node) (Rect, error) {
	switch n.Type {
	case NodeTypeContainer:
		return n.containerBounds(target)
	case NodeTypeText:
		if n.text == nil {
			return Rect{}, nil
		}
		w, h := n.text.size()
		return n.cornerBounds(target, w, h)
	case NodeTypeParticles:
		return n.particleBounds(target)
	}
	if n.quad == nil || n.quad.verts == nil {
		return Rect{}, nil
	}
	m, err := n.TransformToSpace(target)
	if err != nil {
		return Rect{}, err
	}
	var bb boundsBuilder
	for _, v := range n.quad.verts {
		bb.add(transformPoint(m, v.X, v.Y))
	}
	return bb.rect(), nil
}

func (n *Node) containerBounds(target *Node) (Rect, error) {
	switch len(n.children) {
	case 0:
		m, err := n.TransformToSpace(target)
		if err != nil {
			return Rect{}, err
		}
		x, y := transformPoint(m, 0, 0)
		return Rect{X: x, Y: y}, nil
	case 1:
		return n.children[0].BoundsInSpace(target)
	}
	var bb boundsBuilder
	for _, c := range n.children {
		r, err := c.BoundsInSpace(target)
		if err != nil {
			return Rect{}, err
		}
		bb.add(r.X, r.Y)
		bb.add(r.X+r.Width, r.Y+r.Height)
	}
	return bb.rect(), nil
}

// cornerBounds transforms the local box (0,0)-(w,h) into target's space.
func (n *Node) cornerBounds(target *Node, w, h float64) (Rect, error) {
	m, err := n.TransformToSpace(target)
	if err != nil {
		return Rect{}, err
	}
	var bb boundsBuilder
	bb.add(transformPoint(m, 0, 0))
	bb.add(transformPoint(m, w, 0))
	bb.add(transformPoint(m, 0, h))
	bb.add(transformPoint(m, w, h))
	return bb.rect(), nil
}

// Bounds returns the node's box in its parent's space.
func (n *Node) Bounds() Rect {
	r, _ := n.BoundsInSpace(n.parent)
	return r
}

// Width returns the width of the node's box in its parent's space.
func (n *Node) Width() float64 { return n.Bounds().Width }

// Height returns the height of the node's box in its parent's space.
func (n *Node) Height() float64 { return n.Bounds().Height }

// SetWidth scales the node so its parent-space width equals w. A node with
// no measurable width keeps a scale of 1.
func (n *Node) SetWidth(w float64) {
	n.SetScaleX(1)
	if actual := n.Width(); !floatIsZero(actual) {
		n.SetScaleX(w / actual)
	}
}

// SetHeight scales the node so its parent-space height equals h. A node with
// no measurable height keeps a scale of 1.
func (n *Node) SetHeight(h float64) {
	n.SetScaleY(1)
	if actual := n.Height(); !floatIsZero(actual) {
		n.SetScaleY(h / actual)
	}
}

// HitTestPoint returns the front-most node under p, given in n's local
// space, or nil. With isTouch set, invisible and untouchable nodes (and
// their subtrees) never hit.
func (n *Node) HitTestPoint(p Vec2, isTouch bool) *Node {
	if isTouch && (!n.Visible || !n.Touchable) {
		return nil
	}
	if n.Type == NodeTypeContainer {
		for i := len(n.children) - 1; i >= 0; i-- {
			child := n.children[i]
			if isSingular(child.LocalTransform()) {
				continue
			}
			m, err := n.TransformToSpace(child)
			if err != nil {
				continue
			}
			x, y := transformPoint(m, p.X, p.Y)
			if hit := child.HitTestPoint(Vec2{x, y}, isTouch); hit != nil {
				return hit
			}
		}
		return nil
	}
	r, err := n.BoundsInSpace(n)
	if err != nil {
		return nil
	}
	if r.Contains(p.X, p.Y) {
		return n
	}
	return nil
}

// boundsBuilder accumulates min/max over points.
type boundsBuilder struct {
	minX, minY, maxX, maxY float64
	ok                     bool
}

func (b *boundsBuilder) add(x, y float64) {
	if !b.ok {
		b.minX, b.maxX, b.minY, b.maxY = x, x, y, y
		b.ok = true
		return
	}
	b.minX = math.Min(b.minX, x)
	b.maxX = math.Max(b.maxX, x)
	b.minY = math.Min(b.minY, y)
	b.maxY = math.Max(b.maxY, y)
}

func (b *boundsBuilder) rect() Rect {
	return Rect{X: b.minX, Y: b.minY, Width: b.maxX - b.minX, Height: b.maxY - b.minY}
}
