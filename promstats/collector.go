// Package promstats exports sparrow frame statistics as Prometheus metrics.
package promstats

import (
	"github.com/phanxgames/sparrow"
	"github.com/prometheus/client_golang/prometheus"
)

// StatsSource reports the counters of the last rendered frame. *sparrow.Stage
// implements it.
type StatsSource interface {
	FrameStats() sparrow.FrameStats
	FrameCount() uint64
}

// Collector is a prometheus.Collector reading a StatsSource at scrape time.
type Collector struct {
	src StatsSource

	frames      *prometheus.Desc
	flushes     *prometheus.Desc
	drawCalls   *prometheus.Desc
	vertices    *prometheus.Desc
	primitives  *prometheus.Desc
	texts       *prometheus.Desc
	pooledQuads *prometheus.Desc
}

// NewCollector creates a collector with metric names under namespace.
// An empty namespace means "sparrow".
func NewCollector(namespace string, src StatsSource) *Collector {
	if namespace == "" {
		namespace = "sparrow"
	}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, nil)
	}
	return &Collector{
		src:         src,
		frames:      desc("frames_total", "Frames rendered."),
		flushes:     desc("frame_flushes", "Batch flushes in the last frame."),
		drawCalls:   desc("frame_draw_calls", "Draw calls issued in the last frame."),
		vertices:    desc("frame_vertices", "Vertices submitted in the last frame."),
		primitives:  desc("frame_primitives", "Triangles submitted in the last frame."),
		texts:       desc("frame_texts", "Text nodes drawn in the last frame."),
		pooledQuads: desc("pooled_quads", "Shared vertex buffer slots in use."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.frames
	ch <- c.flushes
	ch <- c.drawCalls
	ch <- c.vertices
	ch <- c.primitives
	ch <- c.texts
	ch <- c.pooledQuads
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.FrameStats()
	ch <- prometheus.MustNewConstMetric(c.frames, prometheus.CounterValue, float64(c.src.FrameCount()))
	ch <- prometheus.MustNewConstMetric(c.flushes, prometheus.GaugeValue, float64(s.Flushes))
	ch <- prometheus.MustNewConstMetric(c.drawCalls, prometheus.GaugeValue, float64(s.DrawCalls))
	ch <- prometheus.MustNewConstMetric(c.vertices, prometheus.GaugeValue, float64(s.Vertices))
	ch <- prometheus.MustNewConstMetric(c.primitives, prometheus.GaugeValue, float64(s.Primitives))
	ch <- prometheus.MustNewConstMetric(c.texts, prometheus.GaugeValue, float64(s.Texts))
	ch <- prometheus.MustNewConstMetric(c.pooledQuads, prometheus.GaugeValue, float64(s.PooledQuads))
}
