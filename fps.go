package sparrow

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const fpsRefreshSeconds = 0.5

// fpsOverlay prints FPS, TPS and the last frame's draw calls in a corner of
// the screen. The text is redrawn about twice a second.
type fpsOverlay struct {
	img     *ebiten.Image
	elapsed float64
	label   string
}

func newFPSOverlay() *fpsOverlay {
	// 160x48 fits three lines of debug font.
	return &fpsOverlay{img: ebiten.NewImage(160, 48), elapsed: fpsRefreshSeconds}
}

func (o *fpsOverlay) update(dt float64, stats FrameStats) {
	o.elapsed += dt
	if o.elapsed < fpsRefreshSeconds {
		return
	}
	o.elapsed = 0
	o.label = fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nCalls: %d", ebiten.ActualFPS(), ebiten.ActualTPS(), stats.DrawCalls)
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, o.label)
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	screen.DrawImage(o.img, nil)
}
