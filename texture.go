package sparrow

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// Texture is a drawable image, or a rectangular region of one.
//
// A sub-texture keeps its clipping rectangle relative to its base texture
// and a root clipping rectangle relative to the underlying image. The root
// clipping is resolved once when the sub-texture is created, so nested
// regions never walk their chain at draw time.
type Texture struct {
	image         *ebiten.Image
	width, height float64

	// Frame is the untrimmed frame of an atlas region in the region's own
	// pixel space. A non-empty Frame makes quads apply a correction
	// transform so trimmed regions draw at their original size.
	Frame Rect

	// Repeat switches the sampler to wrap addressing while the texture draws.
	Repeat bool

	base         *Texture
	clipping     Rect
	rootClipping Rect
}

var fullClipping = Rect{0, 0, 1, 1}

// NewTexture wraps an ebiten image.
func NewTexture(img *ebiten.Image) *Texture {
	if img == nil {
		panic("sparrow: NewTexture with nil image")
	}
	b := img.Bounds()
	return &Texture{
		image:        img,
		width:        float64(b.Dx()),
		height:       float64(b.Dy()),
		clipping:     fullClipping,
		rootClipping: fullClipping,
	}
}

// NewEmptyTexture allocates a blank image of the given size.
func NewEmptyTexture(width, height int) *Texture {
	return NewTexture(ebiten.NewImage(width, height))
}

// NewSubTexture returns the region of base given in base's pixel space.
func NewSubTexture(base *Texture, region Rect) (*Texture, error) {
	if base == nil {
		return nil, fmt.Errorf("sparrow: sub-texture: nil base: %w", ErrInvalidArgument)
	}
	if base.width == 0 || base.height == 0 {
		return nil, fmt.Errorf("sparrow: sub-texture of empty base: %w", ErrInvalidArgument)
	}
	t := &Texture{
		image: base.image,
		base:  base,
	}
	t.setClipping(Rect{
		X:      region.X / base.width,
		Y:      region.Y / base.height,
		Width:  region.Width / base.width,
		Height: region.Height / base.height,
	})
	return t, nil
}

// setClipping stores clipping and derives the root clipping from the base's
// already-resolved root clipping.
func (t *Texture) setClipping(c Rect) {
	t.clipping = c
	t.width = t.base.width * c.Width
	t.height = t.base.height * c.Height
	br := t.base.rootClipping
	t.rootClipping = Rect{
		X:      br.X + c.X*br.Width,
		Y:      br.Y + c.Y*br.Height,
		Width:  c.Width * br.Width,
		Height: c.Height * br.Height,
	}
}

// Image returns the underlying ebiten image shared by the whole chain.
func (t *Texture) Image() *ebiten.Image { return t.image }

// Width returns the width in pixels.
func (t *Texture) Width() float64 { return t.width }

// Height returns the height in pixels.
func (t *Texture) Height() float64 { return t.height }

// Base returns the texture this one was cut from, or nil.
func (t *Texture) Base() *Texture { return t.base }

// Root returns the texture at the top of the sub-texture chain.
func (t *Texture) Root() *Texture {
	r := t
	for r.base != nil {
		r = r.base
	}
	return r
}

// Clipping returns the region relative to the base texture, normalized.
func (t *Texture) Clipping() Rect { return t.clipping }

// RootClipping returns the region relative to the underlying image, normalized.
func (t *Texture) RootClipping() Rect { return t.rootClipping }

// mapTexCoord maps a texture-local normalized coordinate to a pixel position
// in the underlying image.
func (t *Texture) mapTexCoord(u, v float64) (float32, float32) {
	rc := t.rootClipping
	root := t.Root()
	return float32((rc.X + u*rc.Width) * root.width),
		float32((rc.Y + v*rc.Height) * root.height)
}

// drawSize is the quad size a texture fills, including any untrimmed frame.
func (t *Texture) drawSize() (float64, float64) {
	return max(t.width, t.Frame.Width), max(t.height, t.Frame.Height)
}

// preRenderTransform is the correction applied before the node's global
// transform when Frame is set.
func (t *Texture) preRenderTransform() ([6]float64, bool) {
	f := t.Frame
	if f.IsEmpty() {
		return identityTransform, false
	}
	return multiplyAffine(translateMatrix(-f.X, -f.Y), scaleMatrix(t.width/f.Width, t.height/f.Height)), true
}
