package sparrow

import (
	"fmt"
	"log/slog"
)

// QuadVertexCount is the number of vertices a quad submits: two triangles
// without an index buffer.
const QuadVertexCount = 6

// Vertex is one corner of a primitive in local space.
type Vertex struct {
	X, Y  float64
	U, V  float64 // normalized coordinates within the node's texture
	Color Color
}

// The shared vertex buffer. Pooled quads own a 6-vertex window into it.
var vertexBuffer []Vertex

// PrimeVertexBuffer allocates the shared vertex buffer with room for quads
// quads and registers the PoolVertices indexer over it. It fails while any
// pooled quad is still alive.
func PrimeVertexBuffer(quads int) error {
	if p := Pool(PoolVertices); p != nil && p.InUse() > 0 {
		return fmt.Errorf("sparrow: prime vertex buffer: %d quads in use: %w", p.InUse(), ErrInvalidSequencing)
	}
	if _, err := RegisterPool(PoolVertices, quads, 0, QuadVertexCount); err != nil {
		return err
	}
	vertexBuffer = make([]Vertex, quads*QuadVertexCount)
	return nil
}

// clientVertexMap lists, for each of the four client corners (top-left,
// top-right, bottom-left, bottom-right), the actual vertices it occupies.
var clientVertexMap = [4][]int{
	{1, 4},
	{5},
	{0},
	{2, 3},
}

// quadCorners are the unit positions of the six actual vertices.
var quadCorners = [QuadVertexCount][2]float64{
	{0, 1}, {0, 0}, {1, 1},
	{1, 1}, {0, 0}, {1, 0},
}

type quadData struct {
	offset        int
	verts         []Vertex
	texture       *Texture
	centered      bool
	width, height float64
}

func newQuadData() *quadData {
	q := &quadData{offset: AcquirePoolSlot(PoolVertices)}
	if q.offset == NoSlot {
		Logger().Debug("quad using private vertices")
		q.verts = make([]Vertex, QuadVertexCount)
	} else {
		q.verts = vertexBuffer[q.offset : q.offset+QuadVertexCount : q.offset+QuadVertexCount]
	}
	return q
}

func (q *quadData) fill(width, height float64, c Color) {
	q.width, q.height = width, height
	ox, oy := 0.0, 0.0
	if q.centered {
		ox, oy = -width/2, -height/2
	}
	for i, corner := range quadCorners {
		q.verts[i] = Vertex{
			X:     ox + corner[0]*width,
			Y:     oy + corner[1]*height,
			U:     corner[0],
			V:     corner[1],
			Color: c,
		}
	}
}

func (q *quadData) release() {
	if q.offset != NoSlot {
		if err := ReleasePoolSlot(PoolVertices, q.offset); err != nil {
			Logger().Warn("quad release", slog.Any("err", err))
		}
		q.offset = NoSlot
	}
	q.verts = nil
	q.texture = nil
}

// NewQuad creates an untextured, solid-color rectangle.
func NewQuad(name string, width, height float64, c Color) *Node {
	n := &Node{Name: name, Type: NodeTypeQuad, quad: newQuadData()}
	nodeDefaults(n)
	n.quad.fill(width, height, c)
	return n
}

// NewImage creates a quad sized to and textured with tex. A nil texture
// yields an empty image that can be textured later.
func NewImage(name string, tex *Texture) *Node {
	n := &Node{Name: name, Type: NodeTypeImage, quad: newQuadData()}
	nodeDefaults(n)
	n.quad.texture = tex
	w, h := 0.0, 0.0
	if tex != nil {
		w, h = tex.drawSize()
	}
	n.quad.fill(w, h, ColorWhite)
	return n
}

// IsPooled reports whether the node's vertices live in the shared buffer.
func (n *Node) IsPooled() bool {
	return n.quad != nil && n.quad.offset != NoSlot
}

// Vertices returns the node's local vertices, or nil for non-quad nodes.
func (n *Node) Vertices() []Vertex {
	if n.quad == nil {
		return nil
	}
	return n.quad.verts
}

// Texture returns the quad's texture, or nil.
func (n *Node) Texture() *Texture {
	if n.quad == nil {
		return nil
	}
	return n.quad.texture
}

// SetTexture replaces the quad's texture. Vertex positions are kept; call
// ReadjustSize to fit the quad to the new texture.
func (n *Node) SetTexture(tex *Texture) {
	if n.quad != nil {
		n.quad.texture = tex
	}
}

// ReadjustSize resizes the quad to its texture, keeping vertex colors.
func (n *Node) ReadjustSize() {
	q := n.quad
	if q == nil || q.texture == nil {
		return
	}
	w, h := q.texture.drawSize()
	n.resizeQuad(w, h)
}

// SetDimensions resizes the quad's geometry, keeping vertex colors.
func (n *Node) SetDimensions(width, height float64) {
	if n.quad != nil {
		n.resizeQuad(width, height)
	}
}

func (n *Node) resizeQuad(width, height float64) {
	q := n.quad
	var colors [QuadVertexCount]Color
	for i := range q.verts {
		colors[i] = q.verts[i].Color
	}
	q.fill(width, height, ColorWhite)
	for i := range q.verts {
		q.verts[i].Color = colors[i]
	}
}

// SetCentered lays the quad's vertices out around the local origin instead
// of extending right and down from it.
func (n *Node) SetCentered(centered bool) {
	q := n.quad
	if q == nil || q.centered == centered {
		return
	}
	q.centered = centered
	n.resizeQuad(q.width, q.height)
}

// IsCentered reports whether the quad's vertices are centered.
func (n *Node) IsCentered() bool {
	return n.quad != nil && n.quad.centered
}

// SetColor tints every vertex.
func (n *Node) SetColor(c Color) {
	if n.quad == nil {
		if n.text != nil {
			n.text.color = c
		}
		return
	}
	for i := range n.quad.verts {
		n.quad.verts[i].Color = c
	}
}

// Color returns the top-left vertex color (or the text color).
func (n *Node) Color() Color {
	if n.text != nil {
		return n.text.color
	}
	if n.quad == nil {
		return ColorWhite
	}
	return n.quad.verts[clientVertexMap[0][0]].Color
}

// SetVertexColor tints one client corner: 0 top-left, 1 top-right,
// 2 bottom-left, 3 bottom-right.
func (n *Node) SetVertexColor(corner int, c Color) error {
	if n.quad == nil {
		return fmt.Errorf("sparrow: vertex color on %s node: %w", n.Type, ErrInvalidArgument)
	}
	if corner < 0 || corner >= len(clientVertexMap) {
		return fmt.Errorf("sparrow: vertex color corner %d: %w", corner, ErrIndexOutOfRange)
	}
	for _, i := range clientVertexMap[corner] {
		n.quad.verts[i].Color = c
	}
	return nil
}

// VertexColor returns the color of one client corner.
func (n *Node) VertexColor(corner int) (Color, error) {
	if n.quad == nil {
		return Color{}, fmt.Errorf("sparrow: vertex color on %s node: %w", n.Type, ErrInvalidArgument)
	}
	if corner < 0 || corner >= len(clientVertexMap) {
		return Color{}, fmt.Errorf("sparrow: vertex color corner %d: %w", corner, ErrIndexOutOfRange)
	}
	return n.quad.verts[clientVertexMap[corner][0]].Color, nil
}
