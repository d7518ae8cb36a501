package world

import (
	"iter"

	"github.com/pthm-cable/aipop/canvas"
	"github.com/pthm-cable/aipop/entity"
)

// Draw renders food below individuals.
func (w *World) Draw(dst canvas.Surface, showGeneration bool) {
	opts := entity.DrawOptions{Tick: w.tick, ShowGeneration: showGeneration}
	drawAll(dst, w.food.All(), opts)
	drawAll(dst, w.individuals.All(), opts)
}

func drawAll[E entity.Entity](dst canvas.Surface, seq iter.Seq[E], opts entity.DrawOptions) {
	for e := range seq {
		e.Draw(dst, opts)
	}
}
