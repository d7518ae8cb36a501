package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/pthm-cable/aipop/canvas"
	"github.com/pthm-cable/aipop/entity"
	"github.com/pthm-cable/aipop/geom"
)

const (
	highlightRadius    = 50
	highlightThickness = 4
	labelSize          = 20
	titleSize          = 60
)

var (
	bestColor          = color.RGBA{R: 0xff, G: 0x60, B: 0x00, A: 0xff}
	oldestColor        = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}
	maxGenerationColor = color.RGBA{R: 255, G: 0, B: 40, A: 0xff}
	titleColor         = color.RGBA{A: 0xa0}
)

// drawOverlays draws the enabled highlights in arena coordinates.
func (g *Game) drawOverlays(dst canvas.Surface) {
	w := g.world
	if g.show.best {
		if ind := w.Best(); ind != nil {
			g.highlight(dst, ind, bestColor, fmt.Sprintf("Energy: %d", int64(math.Round(ind.Energy()))))
		}
	}
	if g.show.oldest {
		if ind := w.Oldest(); ind != nil {
			g.highlight(dst, ind, oldestColor, "Age: "+formatDuration(ind.Age(), g.cfg.Driver.TicksPerSecond))
		}
	}
	if g.show.maxGeneration {
		if ind := w.MostEvolved(); ind != nil {
			dst.StrokeCircle(geom.Circle{C: ind.Pos(), R: highlightRadius}, highlightThickness, maxGenerationColor)
		}
		title := fmt.Sprintf("Generation %d", w.MaxGeneration())
		dst.Text(title, geom.V(w.Width()/2, w.Height()/16), titleSize, titleColor)
	}
}

// highlight circles ind and puts label above and to the right of it, kept
// away from the arena edges.
func (g *Game) highlight(dst canvas.Surface, ind *entity.Individual, col color.RGBA, label string) {
	pos := ind.Pos()
	dst.StrokeCircle(geom.Circle{C: pos, R: highlightRadius}, highlightThickness, col)
	at := pos.Add(geom.V(40, -40)).Restrict(50, 50, g.world.Width()-200, g.world.Height()-50)
	dst.Text(label, at, labelSize, col)
}

// formatDuration renders ticks as m:ss, or h:mm:ss from one hour on.
func formatDuration(ticks int64, ticksPerSecond int) string {
	if ticksPerSecond <= 0 {
		ticksPerSecond = 60
	}
	secs := ticks / int64(ticksPerSecond)
	h, m, s := secs/3600, secs/60%60, secs%60
	if h == 0 {
		return fmt.Sprintf("%d:%02d", m, s)
	}
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
