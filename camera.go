package sparrow

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type scroll struct {
	x, y         *gween.Tween
	doneX, doneY bool
}

// Camera maps the stage's global space onto the screen. It centers the
// world point (X, Y) in its viewport, scaled by Zoom and rotated by
// Rotation.
type Camera struct {
	X, Y     float64
	Zoom     float64
	Rotation float64
	Viewport Rect

	// Bounds, when non-empty, keeps the visible area inside a world rect.
	Bounds Rect

	follow        *Node
	followDX      float64
	followDY      float64
	followLerp    float64
	scroll        *scroll
	view, inverse [6]float64
	lastX, lastY  float64
	lastZoom      float64
	lastRot       float64
	lastViewport  Rect
	viewComputed  bool
}

// NewCamera creates a camera centered on the middle of viewport.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		X:        viewport.X + viewport.Width/2,
		Y:        viewport.Y + viewport.Height/2,
		Zoom:     1,
		Viewport: viewport,
	}
}

// Follow tracks node's global origin plus an offset. lerp is the fraction
// of the remaining distance covered per update; 1 snaps.
func (c *Camera) Follow(node *Node, dx, dy, lerp float64) {
	c.follow = node
	c.followDX, c.followDY = dx, dy
	c.followLerp = clamp01(lerp)
}

// Unfollow stops tracking.
func (c *Camera) Unfollow() { c.follow = nil }

// ScrollTo glides to (x, y) over seconds using fn. A nil fn is linear.
func (c *Camera) ScrollTo(x, y, seconds float64, fn ease.TweenFunc) {
	if fn == nil {
		fn = ease.Linear
	}
	c.scroll = &scroll{
		x: gween.New(float32(c.X), float32(x), float32(seconds), fn),
		y: gween.New(float32(c.Y), float32(y), float32(seconds), fn),
	}
}

// IsScrolling reports whether a ScrollTo is in progress.
func (c *Camera) IsScrolling() bool { return c.scroll != nil }

// Update advances following and scrolling by dt seconds.
func (c *Camera) Update(dt float64) {
	if c.follow != nil {
		if c.follow.IsDisposed() {
			c.follow = nil
		} else {
			g := c.follow.GlobalTransform()
			c.X += (g[4] + c.followDX - c.X) * c.followLerp
			c.Y += (g[5] + c.followDY - c.Y) * c.followLerp
		}
	}
	if s := c.scroll; s != nil {
		if !s.doneX {
			v, done := s.x.Update(float32(dt))
			c.X, s.doneX = float64(v), done
		}
		if !s.doneY {
			v, done := s.y.Update(float32(dt))
			c.Y, s.doneY = float64(v), done
		}
		if s.doneX && s.doneY {
			c.scroll = nil
		}
	}
	if !c.Bounds.IsEmpty() {
		c.clamp()
	}
}

// clamp keeps the visible area inside Bounds, centering on Bounds when it
// is smaller than the view.
func (c *Camera) clamp() {
	zoom := c.zoom()
	halfW := c.Viewport.Width / (2 * zoom)
	halfH := c.Viewport.Height / (2 * zoom)
	c.X = clampAxis(c.X, c.Bounds.X+halfW, c.Bounds.X+c.Bounds.Width-halfW, c.Bounds.X+c.Bounds.Width/2)
	c.Y = clampAxis(c.Y, c.Bounds.Y+halfH, c.Bounds.Y+c.Bounds.Height-halfH, c.Bounds.Y+c.Bounds.Height/2)
}

func clampAxis(v, lo, hi, center float64) float64 {
	if lo > hi {
		return center
	}
	return math.Max(lo, math.Min(v, hi))
}

func (c *Camera) zoom() float64 {
	if floatIsZero(c.Zoom) {
		return 1
	}
	return c.Zoom
}

// ViewTransform returns the matrix from global space to screen space:
// translate(-X,-Y), rotate(-Rotation), scale(Zoom), then translate to the
// viewport center.
func (c *Camera) ViewTransform() [6]float64 {
	if c.viewComputed && c.X == c.lastX && c.Y == c.lastY && c.Zoom == c.lastZoom &&
		c.Rotation == c.lastRot && c.Viewport == c.lastViewport {
		return c.view
	}
	z := c.zoom()
	sin, cos := math.Sincos(-c.Rotation)
	m := translateMatrix(-c.X, -c.Y)
	m = multiplyAffine([6]float64{cos, sin, -sin, cos, 0, 0}, m)
	m = multiplyAffine(scaleMatrix(z, z), m)
	m = multiplyAffine(translateMatrix(c.Viewport.X+c.Viewport.Width/2, c.Viewport.Y+c.Viewport.Height/2), m)

	c.view = m
	c.inverse = invertAffine(m)
	c.lastX, c.lastY, c.lastZoom, c.lastRot, c.lastViewport = c.X, c.Y, c.Zoom, c.Rotation, c.Viewport
	c.viewComputed = true
	return m
}

// WorldToScreen maps a global point to the screen.
func (c *Camera) WorldToScreen(p Vec2) Vec2 {
	x, y := transformPoint(c.ViewTransform(), p.X, p.Y)
	return Vec2{X: x, Y: y}
}

// ScreenToWorld maps a screen point to global space.
func (c *Camera) ScreenToWorld(p Vec2) Vec2 {
	c.ViewTransform()
	x, y := transformPoint(c.inverse, p.X, p.Y)
	return Vec2{X: x, Y: y}
}

// VisibleBounds returns the global-space box covering the viewport.
func (c *Camera) VisibleBounds() Rect {
	c.ViewTransform()
	var bb boundsBuilder
	v := c.Viewport
	bb.add(transformPoint(c.inverse, v.X, v.Y))
	bb.add(transformPoint(c.inverse, v.X+v.Width, v.Y))
	bb.add(transformPoint(c.inverse, v.X, v.Y+v.Height))
	bb.add(transformPoint(c.inverse, v.X+v.Width, v.Y+v.Height))
	return bb.rect()
}
