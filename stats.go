package sparrow

import "log/slog"

// FrameStats counts the work done by one BeginFrame/EndFrame pair.
type FrameStats struct {
	Flushes     int // batch flushes that drew something
	DrawCalls   int // calls made on the DrawTarget
	Vertices    int // vertices submitted by primitive flushes
	Primitives  int // triangles submitted by primitive flushes
	Texts       int // text nodes queued on the sprite batch
	PooledQuads int // vertex pool slots in use at EndFrame
}

// LogValue implements slog.LogValuer.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("flushes", s.Flushes),
		slog.Int("draw_calls", s.DrawCalls),
		slog.Int("vertices", s.Vertices),
		slog.Int("primitives", s.Primitives),
		slog.Int("texts", s.Texts),
		slog.Int("pooled_quads", s.PooledQuads),
	)
}
