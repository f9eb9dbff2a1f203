package sparrow

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// StageConfig sizes a Stage and its shared buffers.
type StageConfig struct {
	Width      int    `toml:"width" yaml:"width"`
	Height     int    `toml:"height" yaml:"height"`
	ClearColor uint32 `toml:"clear_color" yaml:"clear_color"`

	// VertexBufferQuads is the number of quads whose vertices live in the
	// shared buffer. Quads created past it use private storage.
	VertexBufferQuads int `toml:"vertex_buffer_quads" yaml:"vertex_buffer_quads"`
	// BatchQuads is the primitive batch capacity in quads.
	BatchQuads int `toml:"batch_quads" yaml:"batch_quads"`
	TextLines  int `toml:"text_lines" yaml:"text_lines"`

	// Sampler is one of "linear-clamp", "linear-wrap" or "point-clamp".
	Sampler string `toml:"sampler" yaml:"sampler"`
	Debug   bool   `toml:"debug" yaml:"debug"`
}

// DefaultStageConfig returns a 640x480 stage with 2048-quad buffers.
func DefaultStageConfig() StageConfig {
	return StageConfig{
		Width:             640,
		Height:            480,
		ClearColor:        0x000000,
		VertexBufferQuads: DefaultBatchQuads,
		BatchQuads:        DefaultBatchQuads,
		TextLines:         256,
		Sampler:           "linear-clamp",
	}
}

var samplers = map[string]SamplerMode{
	"linear-clamp": SamplerLinearClamp,
	"linear-wrap":  SamplerLinearWrap,
	"point-clamp":  SamplerPointClamp,
}

// SamplerMode resolves the Sampler name.
func (c StageConfig) SamplerMode() (SamplerMode, error) {
	if c.Sampler == "" {
		return SamplerLinearClamp, nil
	}
	m, ok := samplers[c.Sampler]
	if !ok {
		return SamplerMode{}, fmt.Errorf("sparrow: unknown sampler %q: %w", c.Sampler, ErrInvalidArgument)
	}
	return m, nil
}

// Validate reports the first invalid field.
func (c StageConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("sparrow: stage size %dx%d: %w", c.Width, c.Height, ErrInvalidArgument)
	case c.VertexBufferQuads < 0:
		return fmt.Errorf("sparrow: vertex_buffer_quads %d: %w", c.VertexBufferQuads, ErrInvalidArgument)
	case c.BatchQuads <= 0:
		return fmt.Errorf("sparrow: batch_quads %d: %w", c.BatchQuads, ErrInvalidArgument)
	case c.TextLines < 0:
		return fmt.Errorf("sparrow: text_lines %d: %w", c.TextLines, ErrInvalidArgument)
	}
	_, err := c.SamplerMode()
	return err
}

// LoadStageConfig reads a TOML (.toml) or YAML (.yaml, .yml) file over the
// defaults and validates the result.
func LoadStageConfig(path string) (StageConfig, error) {
	cfg := DefaultStageConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("sparrow: load config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("sparrow: decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("sparrow: decode %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("sparrow: config extension %q: %w", ext, ErrInvalidArgument)
	}
	return cfg, cfg.Validate()
}

// EncodeTOML writes the config in TOML form.
func (c StageConfig) EncodeTOML() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeYAML writes the config in YAML form.
func (c StageConfig) EncodeYAML() ([]byte, error) {
	return yaml.Marshal(c)
}
