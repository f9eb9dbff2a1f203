package sparrow

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFontSize is the size of DefaultFace.
const DefaultFontSize = 16

// TextAlign controls horizontal alignment of lines within a text node.
type TextAlign uint8

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
)

// textLine is one laid-out line, positioned in the node's local space.
type textLine struct {
	content string
	x, y    float64
	width   float64
}

// The shared line buffer. Text nodes hold slots in it while laid out.
var textLines []textLine

// PrimeTextLines allocates the shared line buffer with room for count lines
// and registers the PoolTextLines indexer over it. It fails while any text
// node still holds lines.
func PrimeTextLines(count int) error {
	if p := Pool(PoolTextLines); p != nil && p.InUse() > 0 {
		return fmt.Errorf("sparrow: prime text lines: %d lines in use: %w", p.InUse(), ErrInvalidSequencing)
	}
	if _, err := RegisterPool(PoolTextLines, count, 0, 1); err != nil {
		return err
	}
	textLines = make([]textLine, count)
	return nil
}

var (
	defaultFaceOnce sync.Once
	defaultFace     text.Face
)

// DefaultFace returns a Go Regular face of DefaultFontSize. It is used by
// text nodes created without a face.
func DefaultFace() text.Face {
	defaultFaceOnce.Do(func() {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			panic(fmt.Sprintf("sparrow: load default font: %v", err))
		}
		defaultFace = &text.GoTextFace{Source: src, Size: DefaultFontSize}
	})
	return defaultFace
}

type textData struct {
	content     string
	face        text.Face
	color       Color
	align       TextAlign
	wrapWidth   float64
	lineSpacing float64

	lines   []*textLine
	slots   []int
	width   float64
	height  float64
	dirty   bool
	private []textLine
}

// NewText creates a text node. A nil face falls back to DefaultFace when
// the text is first laid out.
func NewText(name, content string, face text.Face) *Node {
	n := &Node{Name: name, Type: NodeTypeText}
	nodeDefaults(n)
	n.text = &textData{content: content, face: face, color: ColorWhite, dirty: true}
	return n
}

func (td *textData) fontFace() text.Face {
	if td.face == nil {
		return DefaultFace()
	}
	return td.face
}

func (td *textData) lineHeight() float64 {
	if td.lineSpacing > 0 {
		return td.lineSpacing
	}
	m := td.fontFace().Metrics()
	return m.HAscent + m.HDescent + m.HLineGap
}

// layout splits the content into lines and positions them. Lines take slots
// from the shared buffer while any are free and private storage after that.
func (td *textData) layout() {
	if !td.dirty {
		return
	}
	td.dirty = false
	td.releaseLines()
	td.width, td.height = 0, 0
	if td.content == "" {
		return
	}

	face := td.fontFace()
	lh := td.lineHeight()
	var contents []string
	for _, para := range strings.Split(td.content, "\n") {
		contents = td.wrap(contents, para, face)
	}

	td.private = td.private[:0]
	for i, s := range contents {
		w := text.Advance(s, face)
		td.width = max(td.width, w)
		td.addLine(textLine{content: s, y: float64(i) * lh, width: w})
	}
	td.height = float64(len(contents)) * lh
	td.bindPrivate()

	box := td.width
	if td.wrapWidth > 0 {
		box = td.wrapWidth
	}
	for _, l := range td.lines {
		switch td.align {
		case TextAlignCenter:
			l.x = (box - l.width) / 2
		case TextAlignRight:
			l.x = box - l.width
		}
	}
}

// wrap appends para to dst broken at spaces so no line exceeds wrapWidth.
// A single word wider than wrapWidth stays on its own line.
func (td *textData) wrap(dst []string, para string, face text.Face) []string {
	if td.wrapWidth <= 0 {
		return append(dst, para)
	}
	words := strings.Fields(para)
	if len(words) == 0 {
		return append(dst, "")
	}
	line := words[0]
	for _, w := range words[1:] {
		candidate := line + " " + w
		if text.Advance(candidate, face) > td.wrapWidth {
			dst = append(dst, line)
			line = w
			continue
		}
		line = candidate
	}
	return append(dst, line)
}

func (td *textData) addLine(l textLine) {
	slot := AcquirePoolSlot(PoolTextLines)
	if slot == NoSlot {
		td.private = append(td.private, l)
		td.lines = append(td.lines, nil)
		return
	}
	textLines[slot] = l
	td.slots = append(td.slots, slot)
	td.lines = append(td.lines, &textLines[slot])
}

func (td *textData) releaseLines() {
	for _, slot := range td.slots {
		textLines[slot] = textLine{}
		if err := ReleasePoolSlot(PoolTextLines, slot); err != nil {
			Logger().Warn("text line release", slog.Any("err", err))
		}
	}
	td.slots = td.slots[:0]
	td.lines = td.lines[:0]
}

// bindPrivate points the nil entries of lines at private storage. It runs
// after layout because appends to private may move it.
func (td *textData) bindPrivate() {
	p := 0
	for i, l := range td.lines {
		if l == nil {
			td.lines[i] = &td.private[p]
			p++
		}
	}
}

func (td *textData) size() (float64, float64) {
	td.layout()
	return td.width, td.height
}

func (td *textData) release() {
	td.releaseLines()
	td.private = nil
	td.face = nil
}

// --- Node accessors ---

// Text returns the content of a text node.
func (n *Node) Text() string {
	if n.text == nil {
		return ""
	}
	return n.text.content
}

// SetText replaces the content of a text node.
func (n *Node) SetText(s string) {
	if n.text != nil && n.text.content != s {
		n.text.content = s
		n.text.dirty = true
	}
}

// SetFace changes the font face. Nil restores DefaultFace.
func (n *Node) SetFace(face text.Face) {
	if n.text != nil {
		n.text.face = face
		n.text.dirty = true
	}
}

// SetTextAlign sets the horizontal alignment of lines.
func (n *Node) SetTextAlign(a TextAlign) {
	if n.text != nil && n.text.align != a {
		n.text.align = a
		n.text.dirty = true
	}
}

// SetWrapWidth breaks lines at spaces to fit width. Zero disables wrapping.
func (n *Node) SetWrapWidth(width float64) {
	if n.text != nil && n.text.wrapWidth != width {
		n.text.wrapWidth = width
		n.text.dirty = true
	}
}

// SetLineSpacing overrides the face's line height. Zero restores it.
func (n *Node) SetLineSpacing(spacing float64) {
	if n.text != nil && n.text.lineSpacing != spacing {
		n.text.lineSpacing = spacing
		n.text.dirty = true
	}
}

// NumLines lays the text out and returns its line count.
func (n *Node) NumLines() int {
	if n.text == nil {
		return 0
	}
	n.text.layout()
	return len(n.text.lines)
}
