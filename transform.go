package sparrow

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// IdentityTransform returns the identity matrix [a, b, c, d, tx, ty].
func IdentityTransform() [6]float64 { return identityTransform }

// computeLocalTransform builds the local matrix in the order
//
//	Translate(-pivot) -> Scale -> Rotate -> Translate(x, y)
func computeLocalTransform(n *Node) [6]float64 {
	sx, sy := n.scaleX, n.scaleY
	sin, cos := math.Sincos(n.rotation)

	preTx := -n.pivotX * sx
	preTy := -n.pivotY * sy

	return [6]float64{
		cos * sx,
		sin * sx,
		-sin * sy,
		cos * sy,
		cos*preTx - sin*preTy + n.x,
		sin*preTx + cos*preTy + n.y,
	}
}

// LocalTransform returns the matrix mapping this node's space into its
// parent's. The result is cached until a transform setter runs.
func (n *Node) LocalTransform() [6]float64 {
	if n.localDirty {
		n.local = computeLocalTransform(n)
		n.localDirty = false
	}
	return n.local
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	if isSingular(m) {
		return identityTransform
	}
	invDet := 1.0 / (m[0]*m[3] - m[2]*m[1])
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// isSingular reports whether m collapses the plane, as a zero scale does.
func isSingular(m [6]float64) bool {
	det := m[0]*m[3] - m[2]*m[1]
	return det > -1e-12 && det < 1e-12
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

func translateMatrix(tx, ty float64) [6]float64 {
	return [6]float64{1, 0, 0, 1, tx, ty}
}

func scaleMatrix(sx, sy float64) [6]float64 {
	return [6]float64{sx, 0, 0, sy, 0, 0}
}

// normalizeAngle folds r into [-pi, pi] by whole turns. Values already at
// -pi or pi are left alone.
func normalizeAngle(r float64) float64 {
	for r < -math.Pi {
		r += 2 * math.Pi
	}
	for r > math.Pi {
		r -= 2 * math.Pi
	}
	return r
}

// --- Transform property accessors ---

// X returns the local x position.
func (n *Node) X() float64 { return n.x }

// Y returns the local y position.
func (n *Node) Y() float64 { return n.y }

// PivotX returns the x pivot.
func (n *Node) PivotX() float64 { return n.pivotX }

// PivotY returns the y pivot.
func (n *Node) PivotY() float64 { return n.pivotY }

// ScaleX returns the horizontal scale.
func (n *Node) ScaleX() float64 { return n.scaleX }

// ScaleY returns the vertical scale.
func (n *Node) ScaleY() float64 { return n.scaleY }

// Rotation returns the rotation in radians, within [-pi, pi].
func (n *Node) Rotation() float64 { return n.rotation }

// Alpha returns the node's alpha in [0, 1].
func (n *Node) Alpha() float64 { return n.alpha }

// SetX sets the local x position.
func (n *Node) SetX(x float64) {
	n.x = x
	n.localDirty = true
}

// SetY sets the local y position.
func (n *Node) SetY(y float64) {
	n.y = y
	n.localDirty = true
}

// SetPosition sets the local position.
func (n *Node) SetPosition(x, y float64) {
	n.x = x
	n.y = y
	n.localDirty = true
}

// SetPivot sets the point, in local space, that scale and rotation act about.
func (n *Node) SetPivot(px, py float64) {
	n.pivotX = px
	n.pivotY = py
	n.localDirty = true
}

// SetScaleX sets the horizontal scale.
func (n *Node) SetScaleX(sx float64) {
	n.scaleX = sx
	n.localDirty = true
}

// SetScaleY sets the vertical scale.
func (n *Node) SetScaleY(sy float64) {
	n.scaleY = sy
	n.localDirty = true
}

// SetScale sets both scale factors.
func (n *Node) SetScale(sx, sy float64) {
	n.scaleX = sx
	n.scaleY = sy
	n.localDirty = true
}

// SetRotation sets the rotation in radians, folded into [-pi, pi].
func (n *Node) SetRotation(r float64) {
	n.rotation = normalizeAngle(r)
	n.localDirty = true
}

// SetAlpha sets alpha, clamped to [0, 1]. Alpha does not affect the matrix.
func (n *Node) SetAlpha(a float64) {
	n.alpha = clamp01(a)
}

// TransformProps is a bulk assignment of transform properties. Nil fields
// are left unchanged.
type TransformProps struct {
	X, Y           *float64
	PivotX, PivotY *float64
	ScaleX, ScaleY *float64
	Rotation       *float64
	Alpha          *float64
}

// SetTransformProperties applies every non-nil field of p through the
// matching setter.
func (n *Node) SetTransformProperties(p TransformProps) {
	if p.X != nil {
		n.SetX(*p.X)
	}
	if p.Y != nil {
		n.SetY(*p.Y)
	}
	if p.PivotX != nil || p.PivotY != nil {
		px, py := n.pivotX, n.pivotY
		if p.PivotX != nil {
			px = *p.PivotX
		}
		if p.PivotY != nil {
			py = *p.PivotY
		}
		n.SetPivot(px, py)
	}
	if p.ScaleX != nil {
		n.SetScaleX(*p.ScaleX)
	}
	if p.ScaleY != nil {
		n.SetScaleY(*p.ScaleY)
	}
	if p.Rotation != nil {
		n.SetRotation(*p.Rotation)
	}
	if p.Alpha != nil {
		n.SetAlpha(*p.Alpha)
	}
}

// Float returns a pointer to v, for building TransformProps literals.
func Float(v float64) *float64 { return &v }
