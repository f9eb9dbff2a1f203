package sparrow

import (
	"fmt"
	"image/color"
)

// RenderTexture is an offscreen texture that nodes can be drawn into. It
// owns a RenderSupport separate from the stage's, so drawing into it never
// disturbs the stage's batch.
type RenderTexture struct {
	texture *Texture
	support *RenderSupport
	drawing bool
	bundle  func(rs *RenderSupport) error
}

// NewRenderTexture creates a transparent offscreen texture.
func NewRenderTexture(width, height int) *RenderTexture {
	return &RenderTexture{
		texture: NewEmptyTexture(width, height),
		support: NewRenderSupport(nil, 0),
	}
}

// Texture returns the texture holding the rendered pixels. It can be used
// by images while no draw into the render texture is in progress.
func (rt *RenderTexture) Texture() *Texture { return rt.texture }

// Clear makes every pixel transparent.
func (rt *RenderTexture) Clear() { rt.texture.image.Clear() }

// Fill sets every pixel to c.
func (rt *RenderTexture) Fill(c Color) { rt.texture.image.Fill(c.RGBA()) }

func (rt *RenderTexture) begin() error {
	if rt.drawing {
		return fmt.Errorf("sparrow: render texture: draw inside a bundle: %w", ErrInvalidSequencing)
	}
	rt.drawing = true
	rt.texture.image.Fill(color.Transparent)
	return rt.support.BeginFrame(rt.texture.image)
}

func (rt *RenderTexture) end(drawErr error) error {
	_, err := rt.support.EndFrame()
	rt.drawing = false
	if drawErr != nil {
		return drawErr
	}
	return err
}

// DrawObject clears the texture and draws n so that the top-left corner of
// its bounds in its parent's space lands at the origin.
func (rt *RenderTexture) DrawObject(n *Node) error {
	bounds, err := n.BoundsInSpace(n.Parent())
	if err != nil {
		return err
	}
	if err := rt.begin(); err != nil {
		return err
	}
	return rt.end(n.Draw(rt.support, translateMatrix(-bounds.X, -bounds.Y)))
}

// BundleDrawCalls clears the texture and runs draw inside one frame of the
// texture's RenderSupport. A nil draw repeats the last bundle.
func (rt *RenderTexture) BundleDrawCalls(draw func(rs *RenderSupport) error) error {
	if draw != nil {
		rt.bundle = draw
	}
	if rt.bundle == nil {
		return nil
	}
	if err := rt.begin(); err != nil {
		return err
	}
	return rt.end(rt.bundle(rt.support))
}

// RepeatBundleDrawCalls runs the last bundle again.
func (rt *RenderTexture) RepeatBundleDrawCalls() error {
	return rt.BundleDrawCalls(nil)
}
