package sparrow

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
)

// Stage is the top-level object: it owns the root container, the juggler
// that drives animations, the render support and a camera.
type Stage struct {
	cfg     StageConfig
	root    *Node
	juggler *Juggler
	support *RenderSupport
	camera  *Camera

	debug  bool
	frames atomic.Uint64
	last   atomic.Pointer[FrameStats]
}

// NewStage validates cfg, primes the shared vertex and text line buffers,
// and creates an empty stage. It fails if a previous stage's nodes still
// hold pooled slots.
func NewStage(cfg StageConfig) (*Stage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sampler, err := cfg.SamplerMode()
	if err != nil {
		return nil, err
	}
	if err := PrimeVertexBuffer(cfg.VertexBufferQuads); err != nil {
		return nil, fmt.Errorf("sparrow: new stage: %w", err)
	}
	if err := PrimeTextLines(cfg.TextLines); err != nil {
		return nil, fmt.Errorf("sparrow: new stage: %w", err)
	}

	rs := NewRenderSupport(nil, cfg.BatchQuads)
	rs.SetDefaultSamplerMode(sampler)
	s := &Stage{
		cfg:     cfg,
		root:    NewContainer("stage"),
		juggler: NewJuggler(),
		support: rs,
		camera:  NewCamera(Rect{Width: float64(cfg.Width), Height: float64(cfg.Height)}),
	}
	s.SetDebugMode(cfg.Debug)
	Logger().Debug("stage created",
		slog.Int("width", cfg.Width),
		slog.Int("height", cfg.Height),
		slog.Int("vertex_buffer_quads", cfg.VertexBufferQuads),
		slog.Int("batch_quads", cfg.BatchQuads),
	)
	return s, nil
}

// Root returns the stage's root container.
func (s *Stage) Root() *Node { return s.root }

// Juggler returns the juggler advanced by Update.
func (s *Stage) Juggler() *Juggler { return s.juggler }

// Camera returns the stage camera.
func (s *Stage) Camera() *Camera { return s.camera }

// RenderSupport returns the render state used by Render.
func (s *Stage) RenderSupport() *RenderSupport { return s.support }

// Config returns the configuration the stage was created with.
func (s *Stage) Config() StageConfig { return s.cfg }

// SetDebugMode turns per-frame stats logging on or off.
func (s *Stage) SetDebugMode(enabled bool) { s.debug = enabled }

// FrameStats returns the counters of the last rendered frame. It and
// FrameCount may be called from any goroutine, such as a metrics scraper.
func (s *Stage) FrameStats() FrameStats {
	if last := s.last.Load(); last != nil {
		return *last
	}
	return FrameStats{}
}

// FrameCount returns the number of frames rendered.
func (s *Stage) FrameCount() uint64 { return s.frames.Load() }

// Update advances the juggler and the camera by dt seconds.
func (s *Stage) Update(dt float64) {
	s.juggler.AdvanceTime(dt)
	s.camera.Update(dt)
}

// Render draws the tree through the camera into target. The frame is
// closed even when drawing fails.
func (s *Stage) Render(target DrawTarget) error {
	if err := s.support.BeginFrame(target); err != nil {
		return err
	}
	drawErr := s.root.Draw(s.support, s.camera.ViewTransform())
	stats, endErr := s.support.EndFrame()
	s.last.Store(&stats)
	frame := s.frames.Add(1)
	if s.debug {
		Logger().Debug("frame", slog.Uint64("frame", frame), slog.Any("stats", stats))
	}
	if drawErr != nil {
		return fmt.Errorf("sparrow: render: %w", drawErr)
	}
	return endErr
}

// Draw clears screen to the configured color and renders the stage into it.
func (s *Stage) Draw(screen *ebiten.Image) error {
	screen.Fill(RGB(s.cfg.ClearColor).RGBA())
	return s.Render(screen)
}

// HitTest returns the front-most touchable node under a screen point.
func (s *Stage) HitTest(p Vec2) *Node {
	return s.root.HitTestPoint(s.root.GlobalToLocal(s.camera.ScreenToWorld(p)), true)
}

// Dispose releases every node of the stage and stops all animations.
func (s *Stage) Dispose() {
	s.juggler.RemoveAll()
	for _, c := range append([]*Node(nil), s.root.children...) {
		c.Dispose()
	}
}
