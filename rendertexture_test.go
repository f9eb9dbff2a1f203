package sparrow

import (
	"errors"
	"testing"
)

func TestRenderTextureDrawObject(t *testing.T) {
	withVertexPool(t, 4)
	rt := NewRenderTexture(32, 32)
	assertNear(t, "Width", rt.Texture().Width(), 32)

	root := NewContainer("root")
	q := NewQuad("q", 10, 10, ColorWhite)
	q.SetPosition(50, 50)
	_ = root.AddChild(q)
	defer root.Dispose()

	if err := rt.DrawObject(q); err != nil {
		t.Fatal(err)
	}
	if rt.drawing || rt.support.InFrame() {
		t.Error("frame left open after DrawObject")
	}
}

func TestRenderTextureBundle(t *testing.T) {
	withVertexPool(t, 4)
	rt := NewRenderTexture(16, 16)
	q := NewQuad("q", 4, 4, ColorWhite)
	defer q.Dispose()

	runs := 0
	err := rt.BundleDrawCalls(func(rs *RenderSupport) error {
		runs++
		return q.Draw(rs, identityTransform)
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := rt.RepeatBundleDrawCalls(); err != nil {
		t.Fatal(err)
	}
	if runs != 2 {
		t.Errorf("bundle ran %d times, want 2", runs)
	}
}

func TestRenderTextureRepeatWithoutBundle(t *testing.T) {
	rt := NewRenderTexture(4, 4)
	if err := rt.RepeatBundleDrawCalls(); err != nil {
		t.Errorf("err = %v", err)
	}
}

func TestRenderTextureNestedDraw(t *testing.T) {
	rt := NewRenderTexture(16, 16)
	n := NewContainer("n")
	var inner error
	err := rt.BundleDrawCalls(func(*RenderSupport) error {
		inner = rt.DrawObject(n)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(inner, ErrInvalidSequencing) {
		t.Errorf("nested DrawObject: err = %v", inner)
	}
	if rt.drawing {
		t.Error("drawing flag stuck")
	}
}

func TestRenderTextureBundleError(t *testing.T) {
	rt := NewRenderTexture(4, 4)
	boom := errors.New("boom")
	if err := rt.BundleDrawCalls(func(*RenderSupport) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
	if rt.drawing || rt.support.InFrame() {
		t.Error("frame left open after a failed bundle")
	}
}
