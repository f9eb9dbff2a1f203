package sparrow

import (
	"fmt"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// DefaultBatchQuads is the number of quads a primitive batch holds before it
// flushes on its own.
const DefaultBatchQuads = 2048

// verticesPerPrimitive is the triangle-list stride.
const verticesPerPrimitive = 3

// PrimitiveBatch accumulates transformed triangles into one fixed-capacity
// vertex buffer and submits the buffer as a single draw call when it fills,
// when render state changes, or at End.
type PrimitiveBatch struct {
	support  *RenderSupport
	vertices []ebiten.Vertex
	indices  []uint32
	cursor   int
	batching bool

	flushes int
}

// NewPrimitiveBatch creates a batch holding capacity vertices.
func NewPrimitiveBatch(rs *RenderSupport, capacity int) *PrimitiveBatch {
	if capacity < QuadVertexCount {
		capacity = QuadVertexCount
	}
	b := &PrimitiveBatch{
		support:  rs,
		vertices: make([]ebiten.Vertex, capacity),
		indices:  make([]uint32, capacity),
	}
	for i := range b.indices {
		b.indices[i] = uint32(i)
	}
	return b
}

// Capacity returns the vertex capacity.
func (b *PrimitiveBatch) Capacity() int { return len(b.vertices) }

// Len returns the number of buffered vertices.
func (b *PrimitiveBatch) Len() int { return b.cursor }

// IsBatching reports whether Begin has been called without a matching End.
func (b *PrimitiveBatch) IsBatching() bool { return b.batching }

// Flushes returns the number of draw calls issued since creation.
func (b *PrimitiveBatch) Flushes() int { return b.flushes }

// Begin starts a batch.
func (b *PrimitiveBatch) Begin() error {
	if b.batching {
		return fmt.Errorf("sparrow: primitive batch: Begin before End: %w", ErrInvalidSequencing)
	}
	b.batching = true
	return nil
}

// End flushes buffered vertices and closes the batch.
func (b *PrimitiveBatch) End() error {
	if !b.batching {
		return fmt.Errorf("sparrow: primitive batch: End before Begin: %w", ErrInvalidSequencing)
	}
	b.flush()
	b.batching = false
	return nil
}

// AddPrimitive buffers the quad of n drawn with transform.
func (b *PrimitiveBatch) AddPrimitive(n *Node, transform [6]float64) error {
	if !b.batching {
		return fmt.Errorf("sparrow: primitive batch: AddPrimitive before Begin: %w", ErrInvalidSequencing)
	}
	if n == nil || n.quad == nil || n.quad.verts == nil {
		return nil
	}
	return b.addVertices(n.quad.verts, n.quad.texture, n.alpha, transform)
}

// addVertices copies verts into the buffer, flushing first if they would
// not fit. The texture's frame correction is applied before transform, each
// color is premultiplied and scaled by alpha, and texture coordinates are
// remapped through the texture's root clipping. A primitive larger than the
// whole batch is rejected.
func (b *PrimitiveBatch) addVertices(verts []Vertex, tex *Texture, alpha float64, transform [6]float64) error {
	if len(verts) > len(b.vertices) {
		Logger().Warn("primitive larger than batch", slog.Int("vertices", len(verts)), slog.Int("capacity", len(b.vertices)))
		return fmt.Errorf("sparrow: add vertices: %d > capacity %d: %w", len(verts), len(b.vertices), ErrInvalidArgument)
	}
	if b.cursor+len(verts) > len(b.vertices) {
		b.flush()
	}
	if tex != nil {
		if pre, ok := tex.preRenderTransform(); ok {
			transform = multiplyAffine(transform, pre)
		}
	}
	for i := range verts {
		src := &verts[i]
		x, y := transformPoint(transform, src.X, src.Y)
		a := src.Color.A * alpha
		dst := &b.vertices[b.cursor+i]
		*dst = ebiten.Vertex{
			DstX:    float32(x),
			DstY:    float32(y),
			ColorR:  float32(src.Color.R * a),
			ColorG:  float32(src.Color.G * a),
			ColorB:  float32(src.Color.B * a),
			ColorA:  float32(a),
			Custom0: float32(quadCorners[i%QuadVertexCount][0]),
			Custom1: float32(quadCorners[i%QuadVertexCount][1]),
		}
		if tex != nil {
			dst.SrcX, dst.SrcY = tex.mapTexCoord(src.U, src.V)
		} else {
			dst.SrcX, dst.SrcY = 0.5, 0.5
		}
	}
	b.cursor += len(verts)
	return nil
}

// flush issues one draw call for the buffered vertices with the current
// render state and rewinds the cursor.
func (b *PrimitiveBatch) flush() {
	if b.cursor == 0 {
		return
	}
	rs := b.support
	img := rs.boundTexture
	if img == nil {
		img = ensureWhitePixel()
	}
	raster := rs.CurrentRasterMode()
	blend := rs.CurrentBlendMode().EbitenBlend()
	verts, inds := b.vertices[:b.cursor], b.indices[:b.cursor]

	if sh := rs.CurrentEffect().ActiveTechnique().Shader; sh != nil {
		op := &ebiten.DrawTrianglesShaderOptions{
			Uniforms:  rs.CurrentEffect().uniforms,
			Blend:     blend,
			FillRule:  raster.FillRule,
			AntiAlias: raster.AntiAlias,
		}
		op.Images[0] = img
		rs.target.DrawTrianglesShader32(verts, inds, sh, op)
	} else {
		op := &ebiten.DrawTrianglesOptions{
			ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha,
			Blend:          blend,
			Filter:         rs.sampler.Filter,
			Address:        rs.sampler.Address,
			FillRule:       raster.FillRule,
			AntiAlias:      raster.AntiAlias,
		}
		rs.target.DrawTriangles32(verts, inds, img, op)
	}

	rs.stats.DrawCalls++
	rs.stats.Flushes++
	rs.stats.Vertices += b.cursor
	rs.stats.Primitives += b.cursor / verticesPerPrimitive
	b.flushes++
	b.cursor = 0
}

// --- Sprite batch ---

type spriteDraw struct {
	img *ebiten.Image
	op  ebiten.DrawImageOptions
}

// SpriteBatch queues glyph images and draws them in order at End.
type SpriteBatch struct {
	support  *RenderSupport
	queue    []spriteDraw
	glyphs   []text.Glyph
	batching bool

	flushes int
}

// NewSpriteBatch creates an empty sprite batch.
func NewSpriteBatch(rs *RenderSupport) *SpriteBatch {
	return &SpriteBatch{support: rs}
}

// IsBatching reports whether Begin has been called without a matching End.
func (b *SpriteBatch) IsBatching() bool { return b.batching }

// Len returns the number of queued draws.
func (b *SpriteBatch) Len() int { return len(b.queue) }

// Flushes returns the number of non-empty Ends since creation.
func (b *SpriteBatch) Flushes() int { return b.flushes }

// Begin starts a batch.
func (b *SpriteBatch) Begin() error {
	if b.batching {
		return fmt.Errorf("sparrow: sprite batch: Begin before End: %w", ErrInvalidSequencing)
	}
	b.batching = true
	return nil
}

// End draws every queued sprite with the current state and closes the batch.
func (b *SpriteBatch) End() error {
	if !b.batching {
		return fmt.Errorf("sparrow: sprite batch: End before Begin: %w", ErrInvalidSequencing)
	}
	b.flush()
	b.batching = false
	return nil
}

// AddImage queues img drawn with transform and premultiplied color scale.
func (b *SpriteBatch) AddImage(img *ebiten.Image, transform [6]float64, c Color, alpha float64) error {
	if !b.batching {
		return fmt.Errorf("sparrow: sprite batch: AddImage before Begin: %w", ErrInvalidSequencing)
	}
	if img == nil {
		return nil
	}
	b.queue = append(b.queue, spriteDraw{img: img})
	d := &b.queue[len(b.queue)-1]
	d.op.GeoM = toGeoM(transform)
	a := float32(c.A * alpha)
	d.op.ColorScale.Scale(float32(c.R)*a, float32(c.G)*a, float32(c.B)*a, a)
	return nil
}

// AddText lays out the lines of a text node and queues its glyphs.
func (b *SpriteBatch) AddText(n *Node, transform [6]float64) error {
	if !b.batching {
		return fmt.Errorf("sparrow: sprite batch: AddText before Begin: %w", ErrInvalidSequencing)
	}
	td := n.text
	if td == nil {
		return nil
	}
	td.layout()
	face := td.fontFace()
	for _, line := range td.lines {
		if line.content == "" {
			continue
		}
		b.glyphs = text.AppendGlyphs(b.glyphs[:0], line.content, face, nil)
		for _, g := range b.glyphs {
			if g.Image == nil {
				continue
			}
			m := multiplyAffine(transform, translateMatrix(line.x+g.X, line.y+g.Y))
			if err := b.AddImage(g.Image, m, td.color, n.alpha); err != nil {
				return err
			}
		}
	}
	b.support.stats.Texts++
	return nil
}

func (b *SpriteBatch) flush() {
	if len(b.queue) == 0 {
		return
	}
	rs := b.support
	blend := rs.CurrentBlendMode().EbitenBlend()
	for i := range b.queue {
		d := &b.queue[i]
		d.op.Blend = blend
		d.op.Filter = rs.sampler.Filter
		rs.target.DrawImage(d.img, &d.op)
		rs.stats.DrawCalls++
		d.img = nil
	}
	rs.stats.Flushes++
	b.flushes++
	b.queue = b.queue[:0]
}

// toGeoM converts an affine matrix to an ebiten.GeoM.
func toGeoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}
