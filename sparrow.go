package sparrow

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when vertices are written into a batch.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default vertex color (no tint).
var ColorWhite = Color{1, 1, 1, 1}

// RGB builds an opaque Color from a 0xRRGGBB value.
func RGB(hex uint32) Color {
	return Color{
		R: float64(hex>>16&0xff) / 255,
		G: float64(hex>>8&0xff) / 255,
		B: float64(hex&0xff) / 255,
		A: 1,
	}
}

// RGBA converts the color to a premultiplied image/color value.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A)*255 + 0.5),
		G: uint8(clamp01(c.G*c.A)*255 + 0.5),
		B: uint8(clamp01(c.B*c.A)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// Vec2 is a 2D point or direction.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. Y increases downward.
type Rect struct {
	X, Y, Width, Height float64
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width == 0 || r.Height == 0
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Union returns the smallest rectangle enclosing both r and other.
func (r Rect) Union(other Rect) Rect {
	minX := math.Min(r.X, other.X)
	minY := math.Min(r.Y, other.Y)
	maxX := math.Max(r.X+r.Width, other.X+other.Width)
	maxY := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // premultiplied source-over
	BlendAdd                       // additive
	BlendMultiply                  // source * destination
	BlendScreen                    // 1 - (1-src)*(1-dst)
	BlendErase                     // destination-out
	BlendNone                      // opaque copy
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendErase:
		return ebiten.BlendDestinationOut
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// String returns the lowercase name used in config files.
func (b BlendMode) String() string {
	switch b {
	case BlendAdd:
		return "add"
	case BlendMultiply:
		return "multiply"
	case BlendScreen:
		return "screen"
	case BlendErase:
		return "erase"
	case BlendNone:
		return "none"
	default:
		return "normal"
	}
}

// RasterMode controls how triangles are rasterized.
type RasterMode struct {
	FillRule  ebiten.FillRule
	AntiAlias bool
}

// DefaultRasterMode fills every triangle without anti-aliasing.
var DefaultRasterMode = RasterMode{FillRule: ebiten.FillRuleFillAll}

// SamplerMode controls texture filtering and addressing.
type SamplerMode struct {
	Filter  ebiten.Filter
	Address ebiten.Address
}

var (
	// SamplerLinearClamp is the default sampler.
	SamplerLinearClamp = SamplerMode{Filter: ebiten.FilterLinear, Address: ebiten.AddressClampToZero}
	// SamplerLinearWrap is applied while drawing repeating textures.
	SamplerLinearWrap = SamplerMode{Filter: ebiten.FilterLinear, Address: ebiten.AddressRepeat}
	// SamplerPointClamp samples the nearest texel.
	SamplerPointClamp = SamplerMode{Filter: ebiten.FilterNearest, Address: ebiten.AddressClampToZero}
)

// NodeType distinguishes rendering behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // owns children, no geometry
	NodeTypeQuad                      // colored rectangle
	NodeTypeImage                     // textured quad
	NodeTypeMovieClip                 // textured quad cycling frames
	NodeTypeText                      // text drawn through the sprite batch
	NodeTypeParticles                 // pooled particle quads
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeContainer:
		return "container"
	case NodeTypeQuad:
		return "quad"
	case NodeTypeImage:
		return "image"
	case NodeTypeMovieClip:
		return "movieclip"
	case NodeTypeText:
		return "text"
	case NodeTypeParticles:
		return "particles"
	default:
		return "unknown"
	}
}

// floatEpsilon is the tolerance used for alpha and measurement comparisons.
const floatEpsilon = 1e-4

func floatIsZero(v float64) bool {
	return math.Abs(v) < floatEpsilon
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var whitePixel *ebiten.Image

// ensureWhitePixel returns the 1x1 white image used for untextured quads.
func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	}
	return whitePixel
}
