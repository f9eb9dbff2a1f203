package sparrow

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

type atlasRegion struct {
	page   int
	region Rect
	frame  Rect
}

// TextureAtlas names regions of one or more page textures. Regions are cut
// into sub-textures on request.
type TextureAtlas struct {
	pages   []*Texture
	regions map[string]atlasRegion
}

// NewTextureAtlas creates an empty atlas over pages.
func NewTextureAtlas(pages ...*Texture) *TextureAtlas {
	return &TextureAtlas{pages: pages, regions: make(map[string]atlasRegion)}
}

// LoadAtlas parses TexturePacker JSON in either the hash format (a single
// "frames" object) or the multi-page array format (a "textures" list), with
// pages given in page order. Trimmed frames become the Frame of the
// sub-textures they produce. Rotated frames are rejected.
func LoadAtlas(jsonData []byte, pages ...*Texture) (*TextureAtlas, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("sparrow: parse atlas: %w", err)
	}
	a := NewTextureAtlas(pages...)
	switch {
	case probe.Textures != nil:
		var textures []struct {
			Frames map[string]atlasFrame `json:"frames"`
		}
		if err := json.Unmarshal(probe.Textures, &textures); err != nil {
			return nil, fmt.Errorf("sparrow: parse atlas textures: %w", err)
		}
		for i, tex := range textures {
			if err := a.addFrames(tex.Frames, i); err != nil {
				return nil, err
			}
		}
	case probe.Frames != nil:
		var frames map[string]atlasFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, fmt.Errorf("sparrow: parse atlas frames: %w", err)
		}
		if err := a.addFrames(frames, 0); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("sparrow: atlas has neither \"frames\" nor \"textures\": %w", ErrInvalidArgument)
	}
	return a, nil
}

type atlasRect struct {
	X, Y, W, H float64
}

type atlasFrame struct {
	Frame            atlasRect `json:"frame"`
	Rotated          bool      `json:"rotated"`
	Trimmed          bool      `json:"trimmed"`
	SpriteSourceSize atlasRect `json:"spriteSourceSize"`
	SourceSize       struct {
		W, H float64
	} `json:"sourceSize"`
}

func (a *TextureAtlas) addFrames(frames map[string]atlasFrame, page int) error {
	if page >= len(a.pages) {
		return fmt.Errorf("sparrow: atlas page %d of %d: %w", page, len(a.pages), ErrIndexOutOfRange)
	}
	for name, f := range frames {
		if f.Rotated {
			return fmt.Errorf("sparrow: atlas region %q is rotated: %w", name, ErrInvalidArgument)
		}
		r := atlasRegion{
			page:   page,
			region: Rect{X: f.Frame.X, Y: f.Frame.Y, Width: f.Frame.W, Height: f.Frame.H},
		}
		if f.Trimmed {
			r.frame = Rect{X: -f.SpriteSourceSize.X, Y: -f.SpriteSourceSize.Y, Width: f.SourceSize.W, Height: f.SourceSize.H}
		}
		a.regions[name] = r
	}
	return nil
}

// Len returns the number of named regions.
func (a *TextureAtlas) Len() int { return len(a.regions) }

// Names returns the region names in sorted order.
func (a *TextureAtlas) Names() []string {
	names := make([]string, 0, len(a.regions))
	for name := range a.regions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// AddRegion names a region of page 0 with an optional untrimmed frame.
func (a *TextureAtlas) AddRegion(name string, region, frame Rect) {
	a.regions[name] = atlasRegion{region: region, frame: frame}
}

// RemoveRegion forgets a region.
func (a *TextureAtlas) RemoveRegion(name string) {
	delete(a.regions, name)
}

// Texture cuts the named region from its page. It returns nil for unknown
// names.
func (a *TextureAtlas) Texture(name string) *Texture {
	r, ok := a.regions[name]
	if !ok || r.page >= len(a.pages) {
		Logger().Debug("atlas region not found", slog.String("name", name))
		return nil
	}
	t, err := NewSubTexture(a.pages[r.page], r.region)
	if err != nil {
		Logger().Warn("atlas region", slog.String("name", name), slog.Any("err", err))
		return nil
	}
	t.Frame = r.frame
	return t
}

// TexturesWithPrefix returns the textures of every region whose name starts
// with prefix, ordered by name. It is the usual source of movie clip frames.
func (a *TextureAtlas) TexturesWithPrefix(prefix string) []*Texture {
	var out []*Texture
	for _, name := range a.Names() {
		if strings.HasPrefix(name, prefix) {
			if t := a.Texture(name); t != nil {
				out = append(out, t)
			}
		}
	}
	return out
}
