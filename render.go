package sparrow

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// DrawTarget receives the draw calls issued by batch flushes. *ebiten.Image
// implements it.
type DrawTarget interface {
	DrawTriangles32(vertices []ebiten.Vertex, indices []uint32, img *ebiten.Image, options *ebiten.DrawTrianglesOptions)
	DrawTrianglesShader32(vertices []ebiten.Vertex, indices []uint32, shader *ebiten.Shader, options *ebiten.DrawTrianglesShaderOptions)
	DrawImage(img *ebiten.Image, options *ebiten.DrawImageOptions)
}

// BatchKind names one of the two batch engines.
type BatchKind uint8

const (
	BatchPrimitive BatchKind = iota // quads and particles
	BatchSprite                     // glyphs and whole images
)

// RenderSupport owns the render state stacks and routes draw requests to
// the primitive or sprite batch.
//
// The effect, blend and raster stacks are never empty: index 0 holds the
// default and popping it is a no-op. Any state change ends the batch in
// progress and restarts it afterwards, so new state never applies to
// geometry that is already buffered.
//
// A RenderSupport belongs to the goroutine that draws the tree.
type RenderSupport struct {
	target DrawTarget

	effects []*Effect
	blends  []BlendMode
	rasters []RasterMode

	defaultSampler SamplerMode
	sampler        SamplerMode
	boundTexture   *ebiten.Image

	primitive *PrimitiveBatch
	sprite    *SpriteBatch
	current   BatchKind

	inFrame   bool
	suspended bool

	stats FrameStats
}

// NewRenderSupport creates a render support whose primitive batch holds
// batchQuads quads. A nil defaultEffect uses the built-in pipeline.
func NewRenderSupport(defaultEffect *Effect, batchQuads int) *RenderSupport {
	if defaultEffect == nil {
		defaultEffect = NewEffect("default")
	}
	if batchQuads <= 0 {
		batchQuads = DefaultBatchQuads
	}
	rs := &RenderSupport{
		effects:        []*Effect{defaultEffect},
		blends:         []BlendMode{BlendNormal},
		rasters:        []RasterMode{DefaultRasterMode},
		defaultSampler: SamplerLinearClamp,
		sampler:        SamplerLinearClamp,
	}
	rs.primitive = NewPrimitiveBatch(rs, batchQuads*QuadVertexCount)
	rs.sprite = NewSpriteBatch(rs)
	return rs
}

// PrimitiveBatch returns the quad batch engine.
func (rs *RenderSupport) PrimitiveBatch() *PrimitiveBatch { return rs.primitive }

// SpriteBatch returns the glyph batch engine.
func (rs *RenderSupport) SpriteBatch() *SpriteBatch { return rs.sprite }

// --- Frame ---

// BeginFrame resets all state to defaults and starts batching into target.
func (rs *RenderSupport) BeginFrame(target DrawTarget) error {
	if target == nil {
		return fmt.Errorf("sparrow: begin frame: nil target: %w", ErrInvalidArgument)
	}
	if rs.inFrame {
		return fmt.Errorf("sparrow: begin frame: frame already open: %w", ErrInvalidSequencing)
	}
	rs.target = target
	rs.inFrame = true
	rs.suspended = false
	rs.effects = rs.effects[:1]
	rs.blends = rs.blends[:1]
	rs.rasters = rs.rasters[:1]
	rs.sampler = rs.defaultSampler
	rs.boundTexture = nil
	rs.current = BatchPrimitive
	rs.stats = FrameStats{}
	return rs.BeginBatch()
}

// EndFrame flushes the active batch and releases the target.
func (rs *RenderSupport) EndFrame() (FrameStats, error) {
	if !rs.inFrame {
		return FrameStats{}, fmt.Errorf("sparrow: end frame: no frame open: %w", ErrInvalidSequencing)
	}
	err := rs.EndBatch()
	if p := Pool(PoolVertices); p != nil {
		rs.stats.PooledQuads = p.InUse()
	}
	rs.inFrame = false
	rs.suspended = false
	rs.target = nil
	rs.boundTexture = nil
	return rs.stats, err
}

// Stats returns the counters of the current or last frame.
func (rs *RenderSupport) Stats() FrameStats { return rs.stats }

// InFrame reports whether BeginFrame has been called without EndFrame.
func (rs *RenderSupport) InFrame() bool { return rs.inFrame }

// --- Batches ---

// CurrentBatch returns the active batch engine.
func (rs *RenderSupport) CurrentBatch() BatchKind { return rs.current }

// IsBatching reports whether the active engine has an open batch.
func (rs *RenderSupport) IsBatching() bool {
	if rs.current == BatchSprite {
		return rs.sprite.IsBatching()
	}
	return rs.primitive.IsBatching()
}

// BeginBatch opens a batch on the active engine if none is open.
func (rs *RenderSupport) BeginBatch() error {
	if rs.suspended {
		return fmt.Errorf("sparrow: begin batch while suspended: %w", ErrInvalidSequencing)
	}
	if !rs.inFrame {
		return fmt.Errorf("sparrow: begin batch outside a frame: %w", ErrInvalidSequencing)
	}
	if rs.IsBatching() {
		return nil
	}
	if rs.current == BatchSprite {
		return rs.sprite.Begin()
	}
	return rs.primitive.Begin()
}

// EndBatch flushes and closes the active engine's batch, if one is open.
func (rs *RenderSupport) EndBatch() error {
	if !rs.IsBatching() {
		return nil
	}
	if rs.current == BatchSprite {
		return rs.sprite.End()
	}
	return rs.primitive.End()
}

// SetCurrentBatch switches engines, ending the previous engine's batch first.
// The new engine is not begun until something is drawn.
func (rs *RenderSupport) SetCurrentBatch(kind BatchKind) error {
	if kind == rs.current {
		return nil
	}
	if err := rs.EndBatch(); err != nil {
		return err
	}
	rs.current = kind
	return nil
}

func (rs *RenderSupport) ensureBatch(kind BatchKind) error {
	if err := rs.SetCurrentBatch(kind); err != nil {
		return err
	}
	return rs.BeginBatch()
}

// AddPrimitive buffers a quad node on the primitive engine.
func (rs *RenderSupport) AddPrimitive(n *Node, transform [6]float64) error {
	if err := rs.ensureBatch(BatchPrimitive); err != nil {
		return err
	}
	return rs.primitive.AddPrimitive(n, transform)
}

// AddVertices buffers raw local vertices on the primitive engine.
func (rs *RenderSupport) AddVertices(verts []Vertex, tex *Texture, alpha float64, transform [6]float64) error {
	if err := rs.ensureBatch(BatchPrimitive); err != nil {
		return err
	}
	return rs.primitive.addVertices(verts, tex, alpha, transform)
}

// AddText queues a text node on the sprite engine.
func (rs *RenderSupport) AddText(n *Node, transform [6]float64) error {
	if err := rs.ensureBatch(BatchSprite); err != nil {
		return err
	}
	return rs.sprite.AddText(n, transform)
}

// AddImage queues a whole image on the sprite engine.
func (rs *RenderSupport) AddImage(img *ebiten.Image, transform [6]float64, c Color, alpha float64) error {
	if err := rs.ensureBatch(BatchSprite); err != nil {
		return err
	}
	return rs.sprite.AddImage(img, transform, c, alpha)
}

// changeState ends the open batch, applies fn, and restarts the batch.
func (rs *RenderSupport) changeState(fn func()) error {
	if !rs.IsBatching() {
		fn()
		return nil
	}
	if err := rs.EndBatch(); err != nil {
		return err
	}
	fn()
	return rs.BeginBatch()
}

// --- Suspension ---

// Suspend ends the open batch without restarting it. Repeated calls are no-ops.
func (rs *RenderSupport) Suspend() error {
	if rs.suspended {
		return nil
	}
	rs.suspended = true
	return rs.EndBatch()
}

// Resume restarts batching after Suspend. Repeated calls are no-ops.
func (rs *RenderSupport) Resume() error {
	if !rs.suspended {
		return nil
	}
	rs.suspended = false
	if !rs.inFrame {
		return nil
	}
	return rs.BeginBatch()
}

// IsSuspended reports whether rendering is suspended.
func (rs *RenderSupport) IsSuspended() bool { return rs.suspended }

// --- Effect stack ---

// PushEffect makes e the current effect.
func (rs *RenderSupport) PushEffect(e *Effect) error {
	if e == nil {
		return fmt.Errorf("sparrow: push effect: nil effect: %w", ErrInvalidArgument)
	}
	return rs.changeState(func() { rs.effects = append(rs.effects, e) })
}

// PopEffect restores the previous effect. The default is never popped.
func (rs *RenderSupport) PopEffect() error {
	if len(rs.effects) <= 1 {
		return nil
	}
	return rs.changeState(func() {
		rs.effects[len(rs.effects)-1] = nil
		rs.effects = rs.effects[:len(rs.effects)-1]
	})
}

// CurrentEffect returns the top of the effect stack.
func (rs *RenderSupport) CurrentEffect() *Effect { return rs.effects[len(rs.effects)-1] }

// DefaultEffect returns the bottom of the effect stack.
func (rs *RenderSupport) DefaultEffect() *Effect { return rs.effects[0] }

// IsUsingDefaultEffect reports whether no effect has been pushed.
func (rs *RenderSupport) IsUsingDefaultEffect() bool { return len(rs.effects) == 1 }

// --- Blend stack ---

// PushBlendMode makes mode the current blend mode.
func (rs *RenderSupport) PushBlendMode(mode BlendMode) error {
	return rs.changeState(func() { rs.blends = append(rs.blends, mode) })
}

// PopBlendMode restores the previous blend mode. The default is never popped.
func (rs *RenderSupport) PopBlendMode() error {
	if len(rs.blends) <= 1 {
		return nil
	}
	return rs.changeState(func() { rs.blends = rs.blends[:len(rs.blends)-1] })
}

// CurrentBlendMode returns the top of the blend stack.
func (rs *RenderSupport) CurrentBlendMode() BlendMode { return rs.blends[len(rs.blends)-1] }

// --- Raster stack ---

// PushRasterMode makes mode the current raster mode.
func (rs *RenderSupport) PushRasterMode(mode RasterMode) error {
	return rs.changeState(func() { rs.rasters = append(rs.rasters, mode) })
}

// PopRasterMode restores the previous raster mode. The default is never popped.
func (rs *RenderSupport) PopRasterMode() error {
	if len(rs.rasters) <= 1 {
		return nil
	}
	return rs.changeState(func() { rs.rasters = rs.rasters[:len(rs.rasters)-1] })
}

// CurrentRasterMode returns the top of the raster stack.
func (rs *RenderSupport) CurrentRasterMode() RasterMode { return rs.rasters[len(rs.rasters)-1] }

// --- Sampler and texture ---

// SetDefaultSamplerMode sets the sampler restored after each node draws.
func (rs *RenderSupport) SetDefaultSamplerMode(mode SamplerMode) {
	rs.defaultSampler = mode
}

// SetSamplerMode changes the active sampler.
func (rs *RenderSupport) SetSamplerMode(mode SamplerMode) error {
	if mode == rs.sampler {
		return nil
	}
	return rs.changeState(func() { rs.sampler = mode })
}

// SamplerMode returns the active sampler.
func (rs *RenderSupport) SamplerMode() SamplerMode { return rs.sampler }

// SetBoundTexture changes the image sampled by the primitive batch.
func (rs *RenderSupport) SetBoundTexture(img *ebiten.Image) error {
	if img == rs.boundTexture {
		return nil
	}
	return rs.changeState(func() { rs.boundTexture = img })
}

// BoundTexture returns the image sampled by the primitive batch.
func (rs *RenderSupport) BoundTexture() *ebiten.Image { return rs.boundTexture }

// --- Per-node state ---

// PreDraw pushes the node's effect and blend overrides and, for repeating
// textures, switches to a wrapping sampler.
func (rs *RenderSupport) PreDraw(n *Node) error {
	if n.Effect != nil {
		if err := rs.PushEffect(n.Effect); err != nil {
			return err
		}
	}
	if n.hasBlend {
		if err := rs.PushBlendMode(n.blend); err != nil {
			return err
		}
	}
	if tex := n.Texture(); tex != nil && tex.Repeat {
		wrap := rs.sampler
		wrap.Address = ebiten.AddressRepeat
		return rs.SetSamplerMode(wrap)
	}
	return nil
}

// PostDraw pops what PreDraw pushed and restores the default sampler.
func (rs *RenderSupport) PostDraw(n *Node) error {
	if n.Effect != nil && rs.CurrentEffect() == n.Effect && !rs.IsUsingDefaultEffect() {
		if err := rs.PopEffect(); err != nil {
			return err
		}
	}
	if n.hasBlend && len(rs.blends) > 1 && rs.CurrentBlendMode() == n.blend {
		if err := rs.PopBlendMode(); err != nil {
			return err
		}
	}
	return rs.SetSamplerMode(rs.defaultSampler)
}
