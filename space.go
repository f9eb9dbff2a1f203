package sparrow

import "fmt"

// ancestorBuf records one node's ancestor chain during TransformToSpace.
// It is shared by every call, so TransformToSpace is neither reentrant nor
// safe for concurrent use: call it only from the goroutine that owns the
// tree, and never from inside another TransformToSpace call.
var ancestorBuf [MaxTreeDepth]*Node

// TransformToSpace returns the matrix that maps points from n's local space
// into target's local space. A nil target means global space (above the root).
// It returns ErrNotConnected when the nodes share no ancestor.
func (n *Node) TransformToSpace(target *Node) ([6]float64, error) {
	switch {
	case target == n:
		return identityTransform, nil

	case target == n.parent:
		// Also covers a root node mapped into global space.
		return n.LocalTransform(), nil

	case target == nil || (target.parent == nil && target == n.Root()):
		m := identityTransform
		for cur := n; cur != target; cur = cur.parent {
			m = multiplyAffine(cur.LocalTransform(), m)
		}
		return m, nil

	case target.parent == n:
		return invertAffine(target.LocalTransform()), nil
	}

	count := 0
	for cur := n; cur != nil && count < MaxTreeDepth; cur = cur.parent {
		ancestorBuf[count] = cur
		count++
	}
	defer clear(ancestorBuf[:count])

	var common *Node
	for cur := target; cur != nil && common == nil; cur = cur.parent {
		for i := range count {
			if ancestorBuf[i] == cur {
				common = cur
				break
			}
		}
	}
	if common == nil {
		return identityTransform, fmt.Errorf("sparrow: transform %q to %q: %w", n.Name, target.Name, ErrNotConnected)
	}

	selfMatrix := identityTransform
	for cur := n; cur != common; cur = cur.parent {
		selfMatrix = multiplyAffine(cur.LocalTransform(), selfMatrix)
	}
	if common == target {
		return selfMatrix, nil
	}

	targetMatrix := identityTransform
	for cur := target; cur != common; cur = cur.parent {
		targetMatrix = multiplyAffine(cur.LocalTransform(), targetMatrix)
	}
	return multiplyAffine(invertAffine(targetMatrix), selfMatrix), nil
}

// GlobalTransform returns the matrix from n's local space into global space.
func (n *Node) GlobalTransform() [6]float64 {
	m, _ := n.TransformToSpace(nil)
	return m
}

// LocalToGlobal maps a point from n's local space into global space.
func (n *Node) LocalToGlobal(p Vec2) Vec2 {
	x, y := transformPoint(n.GlobalTransform(), p.X, p.Y)
	return Vec2{x, y}
}

// GlobalToLocal maps a point from global space into n's local space.
func (n *Node) GlobalToLocal(p Vec2) Vec2 {
	x, y := transformPoint(invertAffine(n.GlobalTransform()), p.X, p.Y)
	return Vec2{x, y}
}

// LocalToSpace maps a point from n's local space into target's.
func (n *Node) LocalToSpace(p Vec2, target *Node) (Vec2, error) {
	m, err := n.TransformToSpace(target)
	if err != nil {
		return Vec2{}, err
	}
	x, y := transformPoint(m, p.X, p.Y)
	return Vec2{x, y}, nil
}
