package sparrow

import (
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures Run.
type RunConfig struct {
	Title   string
	ShowFPS bool

	// Update, if set, runs every tick after the stage has advanced.
	Update func(dt float64) error
}

// Run opens a window sized to the stage and drives it until the window is
// closed or Update returns an error. For full control, implement
// [ebiten.Game] yourself and call [Stage.Update] and [Stage.Draw].
func Run(stage *Stage, cfg RunConfig) error {
	sc := stage.Config()
	ebiten.SetWindowSize(sc.Width, sc.Height)
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	g := &stageGame{stage: stage, update: cfg.Update}
	if cfg.ShowFPS {
		g.fps = newFPSOverlay()
	}
	return ebiten.RunGame(g)
}

type stageGame struct {
	stage  *Stage
	update func(dt float64) error
	fps    *fpsOverlay
}

func (g *stageGame) Update() error {
	dt := 1 / float64(ebiten.TPS())
	g.stage.Update(dt)
	if g.fps != nil {
		g.fps.update(dt, g.stage.FrameStats())
	}
	if g.update != nil {
		return g.update(dt)
	}
	return nil
}

func (g *stageGame) Draw(screen *ebiten.Image) {
	if err := g.stage.Draw(screen); err != nil {
		Logger().Error("draw", slog.Any("err", err))
	}
	if g.fps != nil {
		g.fps.draw(screen)
	}
}

func (g *stageGame) Layout(_, _ int) (int, int) {
	cfg := g.stage.Config()
	return cfg.Width, cfg.Height
}
