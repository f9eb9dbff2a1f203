package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"github.com/phanxgames/sparrow"
	"github.com/phanxgames/sparrow/promstats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/tanema/gween/ease"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Open a window showing an animated demo stage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		stage, err := sparrow.NewStage(cfg)
		if err != nil {
			return err
		}
		d, err := buildDemo(stage)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
			serveMetrics(addr, stage)
		}

		showFPS, _ := cmd.Flags().GetBool("fps")
		return sparrow.Run(stage, sparrow.RunConfig{
			Title:   "sparrow demo",
			ShowFPS: showFPS,
			Update: func(float64) error {
				d.refreshLabel(stage.FrameStats(), d.sparks.Particles().AliveCount())
				return nil
			},
		})
	},
}

func init() {
	demoCmd.Flags().Bool("fps", false, "Show an FPS overlay")
	demoCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :2112)")
	rootCmd.AddCommand(demoCmd)
}

func serveMetrics(addr string, stage *sparrow.Stage) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(promstats.NewCollector("sparrow", stage))
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		sparrow.Logger().Info("serving metrics", slog.String("addr", addr))
		if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sparrow.Logger().Error("metrics server", slog.Any("err", err))
		}
	}()
}

// demo holds the nodes the game loop updates.
type demo struct {
	spinner *sparrow.Node
	label   *sparrow.Node
	sparks  *sparrow.Node
}

// buildDemo fills the stage with a gradient backdrop, a pulsing spinner,
// a particle fountain and a stats label, and schedules their animations.
func buildDemo(stage *sparrow.Stage) (*demo, error) {
	cfg := stage.Config()
	w, h := float64(cfg.Width), float64(cfg.Height)
	root := stage.Root()
	j := stage.Juggler()

	bg := sparrow.NewQuad("backdrop", w, h, sparrow.RGB(0x1d2b53))
	if err := bg.SetVertexColor(2, sparrow.RGB(0x7e2553)); err != nil {
		return nil, err
	}
	if err := bg.SetVertexColor(3, sparrow.RGB(0x7e2553)); err != nil {
		return nil, err
	}

	spinner := sparrow.NewContainer("spinner")
	spinner.SetPosition(w/2, h/2)
	for i := range 6 {
		petal := sparrow.NewQuad(fmt.Sprintf("petal-%d", i), 80, 16, sparrow.RGB(0xffa300))
		petal.SetPivot(0, 8)
		petal.SetRotation(float64(i) * math.Pi / 3)
		if err := spinner.AddChild(petal); err != nil {
			return nil, err
		}
	}

	sparks := sparrow.NewParticleBuffer("sparks", 256, nil)
	sparks.SetPosition(w/2, h-40)
	pc := sparks.Particles().Config()
	pc.EmitRate = 60
	pc.Angle = sparrow.Range{Min: -math.Pi * 0.6, Max: -math.Pi * 0.4}
	pc.Speed = sparrow.Range{Min: 120, Max: 220}
	pc.Gravity = sparrow.Vec2{Y: 200}
	pc.StartColor = sparrow.RGB(0xfff1e8)
	pc.EndColor = sparrow.RGB(0xff004d)
	sparks.SetBlendMode(sparrow.BlendAdd)
	sparks.Particles().Start()

	label := sparrow.NewText("stats", "", nil)
	label.SetPosition(8, 8)

	for _, n := range []*sparrow.Node{bg, sparks, spinner, label} {
		if err := root.AddChild(n); err != nil {
			return nil, err
		}
	}

	spin := sparrow.NewTween(spinner, 4, ease.Linear)
	spin.Animate(spinner.Rotation, spinner.SetRotation, spinner.Rotation()+2*math.Pi)
	spin.SetLoop(sparrow.LoopRepeat)
	pulse := sparrow.TweenScale(spinner, 1.3, 1.3, 0.8, ease.InOutQuad)
	pulse.SetLoop(sparrow.LoopReverse)
	j.Add(spin)
	j.Add(pulse)
	j.Add(sparks.Particles())

	return &demo{spinner: spinner, label: label, sparks: sparks}, nil
}

// refreshLabel prints the previous frame's counters.
func (d *demo) refreshLabel(stats sparrow.FrameStats, particles int) {
	d.label.SetText(fmt.Sprintf("draw calls %d  vertices %d  particles %d",
		stats.DrawCalls, stats.Vertices, particles))
}
