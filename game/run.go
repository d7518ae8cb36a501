package game

import (
	"context"
	"time"
)

// Run updates the game until ctx is done or MaxTicks is reached, pacing
// updates at driver.tick_rate per second (0 = as fast as possible). It
// returns nil on a clean stop and the tick error otherwise.
func (g *Game) Run(ctx context.Context) error {
	var pace <-chan time.Time
	if rate := g.cfg.Driver.TickRate; rate > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(rate))
		defer ticker.Stop()
		pace = ticker.C
	}

	for !g.Done() && ctx.Err() == nil {
		if pace != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-pace:
			}
		}
		if err := g.Update(ctx); err != nil {
			return err
		}
	}
	return nil
}
