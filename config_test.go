package sparrow

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultStageConfigValid(t *testing.T) {
	cfg := DefaultStageConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if m, _ := cfg.SamplerMode(); m != SamplerLinearClamp {
		t.Errorf("sampler = %+v", m)
	}
}

func TestStageConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*StageConfig)
	}{
		{"zero width", func(c *StageConfig) { c.Width = 0 }},
		{"negative vertex buffer", func(c *StageConfig) { c.VertexBufferQuads = -1 }},
		{"zero batch", func(c *StageConfig) { c.BatchQuads = 0 }},
		{"negative text lines", func(c *StageConfig) { c.TextLines = -1 }},
		{"unknown sampler", func(c *StageConfig) { c.Sampler = "bicubic" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultStageConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("err = %v", err)
			}
		})
	}
}

func TestLoadStageConfigTOML(t *testing.T) {
	path := writeConfig(t, "stage.toml", `
width = 800
height = 600
clear_color = 0x102030
sampler = "point-clamp"
`)
	cfg, err := LoadStageConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 800 || cfg.Height != 600 || cfg.ClearColor != 0x102030 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.BatchQuads != DefaultBatchQuads {
		t.Errorf("unset field lost its default: %d", cfg.BatchQuads)
	}
	if m, _ := cfg.SamplerMode(); m != SamplerPointClamp {
		t.Errorf("sampler = %+v", m)
	}
}

func TestLoadStageConfigYAML(t *testing.T) {
	path := writeConfig(t, "stage.yml", "width: 320\nheight: 240\ndebug: true\nbatch_quads: 64\n")
	cfg, err := LoadStageConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 320 || !cfg.Debug || cfg.BatchQuads != 64 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadStageConfigErrors(t *testing.T) {
	if _, err := LoadStageConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file loaded")
	}
	if _, err := LoadStageConfig(writeConfig(t, "stage.json", "{}")); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("json: err = %v", err)
	}
	if _, err := LoadStageConfig(writeConfig(t, "bad.toml", "width = ")); err == nil {
		t.Error("malformed toml loaded")
	}
	if _, err := LoadStageConfig(writeConfig(t, "bad.yaml", "width: -5\n")); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("invalid yaml values: err = %v", err)
	}
}

func TestStageConfigEncodeRoundTrip(t *testing.T) {
	cfg := DefaultStageConfig()
	cfg.Width = 1024
	cfg.Sampler = "linear-wrap"

	tomlData, err := cfg.EncodeTOML()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(tomlData), "width = 1024") {
		t.Errorf("toml = %s", tomlData)
	}
	loaded, err := LoadStageConfig(writeConfig(t, "out.toml", string(tomlData)))
	if err != nil || loaded != cfg {
		t.Errorf("toml round trip = %+v, %v", loaded, err)
	}

	yamlData, err := cfg.EncodeYAML()
	if err != nil {
		t.Fatal(err)
	}
	loaded, err = LoadStageConfig(writeConfig(t, "out.yaml", string(yamlData)))
	if err != nil || loaded != cfg {
		t.Errorf("yaml round trip = %+v, %v", loaded, err)
	}
}
