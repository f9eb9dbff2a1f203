package sparrow

import (
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func assertRect(t *testing.T, name string, got, want Rect) {
	t.Helper()
	assertNear(t, name+".X", got.X, want.X)
	assertNear(t, name+".Y", got.Y, want.Y)
	assertNear(t, name+".Width", got.Width, want.Width)
	assertNear(t, name+".Height", got.Height, want.Height)
}

// drawCall is one call recorded by recordingTarget.
type drawCall struct {
	kind     string // "triangles", "shader" or "image"
	vertices []ebiten.Vertex
	img      *ebiten.Image
	blend    ebiten.Blend
	filter   ebiten.Filter
	address  ebiten.Address
	uniforms map[string]any
	geoM     ebiten.GeoM
}

// recordingTarget is a DrawTarget that keeps every call instead of drawing.
type recordingTarget struct {
	calls []drawCall
}

func (r *recordingTarget) DrawTriangles32(vertices []ebiten.Vertex, _ []uint32, img *ebiten.Image, op *ebiten.DrawTrianglesOptions) {
	r.calls = append(r.calls, drawCall{
		kind:     "triangles",
		vertices: append([]ebiten.Vertex(nil), vertices...),
		img:      img,
		blend:    op.Blend,
		filter:   op.Filter,
		address:  op.Address,
	})
}

func (r *recordingTarget) DrawTrianglesShader32(vertices []ebiten.Vertex, _ []uint32, _ *ebiten.Shader, op *ebiten.DrawTrianglesShaderOptions) {
	r.calls = append(r.calls, drawCall{
		kind:     "shader",
		vertices: append([]ebiten.Vertex(nil), vertices...),
		img:      op.Images[0],
		blend:    op.Blend,
		uniforms: op.Uniforms,
	})
}

func (r *recordingTarget) DrawImage(img *ebiten.Image, op *ebiten.DrawImageOptions) {
	r.calls = append(r.calls, drawCall{kind: "image", img: img, blend: op.Blend, filter: op.Filter, geoM: op.GeoM})
}

func (r *recordingTarget) vertexCount() int {
	n := 0
	for _, c := range r.calls {
		n += len(c.vertices)
	}
	return n
}

// withVertexPool primes the shared vertex buffer and unregisters it when
// the test ends, so pooled state never leaks between tests.
func withVertexPool(t *testing.T, quads int) {
	t.Helper()
	UnregisterPool(PoolVertices)
	if err := PrimeVertexBuffer(quads); err != nil {
		t.Fatalf("PrimeVertexBuffer(%d): %v", quads, err)
	}
	t.Cleanup(func() {
		UnregisterPool(PoolVertices)
		vertexBuffer = nil
	})
}

// withTextLines does the same for the shared text line buffer.
func withTextLines(t *testing.T, count int) {
	t.Helper()
	UnregisterPool(PoolTextLines)
	if err := PrimeTextLines(count); err != nil {
		t.Fatalf("PrimeTextLines(%d): %v", count, err)
	}
	t.Cleanup(func() {
		UnregisterPool(PoolTextLines)
		textLines = nil
	})
}

// beginFrame opens a frame on a fresh render support over a recorder.
func beginFrame(t *testing.T, batchQuads int) (*RenderSupport, *recordingTarget) {
	t.Helper()
	rec := &recordingTarget{}
	rs := NewRenderSupport(nil, batchQuads)
	if err := rs.BeginFrame(rec); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	return rs, rec
}
