package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/phanxgames/sparrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		_ = rootCmd.PersistentFlags().Set("config", "")
		_ = configCmd.Flags().Set("format", "toml")
		sparrow.SetLogger(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConfigPrintsDefaults(t *testing.T) {
	out, err := runRoot(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "width = 640")
	assert.Contains(t, out, `sampler = "linear-clamp"`)
}

func TestConfigLoadsYAMLAndPrintsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: 320\nheight: 200\nsampler: point-clamp\n"), 0o644))

	out, err := runRoot(t, "--config", path, "config", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "width: 320")
	assert.Contains(t, out, "sampler: point-clamp")
	assert.Contains(t, out, "batch_quads: 2048")
}

func TestConfigRejectsUnknownFormat(t *testing.T) {
	_, err := runRoot(t, "config", "--format", "json")
	assert.ErrorContains(t, err, "unknown --format")
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.toml")
	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(good, []byte("width = 800\nheight = 600\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("width = 0\n"), 0o644))

	out, err := runRoot(t, "config", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	_, err = runRoot(t, "config", "validate", bad)
	assert.ErrorIs(t, err, sparrow.ErrInvalidArgument)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := runRoot(t, "--log-level", "loud", "config")
	assert.ErrorContains(t, err, "invalid --log-level")
	require.NoError(t, rootCmd.PersistentFlags().Set("log-level", "warn"))
}

func TestBuildDemo(t *testing.T) {
	cfg := sparrow.DefaultStageConfig()
	cfg.VertexBufferQuads = 16
	stage, err := sparrow.NewStage(cfg)
	require.NoError(t, err)
	t.Cleanup(stage.Dispose)

	d, err := buildDemo(stage)
	require.NoError(t, err)

	assert.Equal(t, 4, stage.Root().NumChildren())
	assert.Equal(t, 6, d.spinner.NumChildren())
	assert.Equal(t, 3, stage.Juggler().Len())

	stage.Update(0.5)
	assert.Positive(t, d.sparks.Particles().AliveCount())
	assert.Greater(t, d.spinner.ScaleX(), 1.0)

	d.refreshLabel(sparrow.FrameStats{DrawCalls: 2, Vertices: 36}, 5)
	assert.Equal(t, "draw calls 2  vertices 36  particles 5", d.label.Text())
}
