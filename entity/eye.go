package entity

import (
	"math"

	"github.com/pthm-cable/aipop/geom"
)

// Eye caches what an individual saw at the start of its last step.
// Misses report a distance of math.MaxFloat64, bearing 0, and -1 for the
// enemy's hue and saturation.
type Eye struct {
	FoodBearing     geom.Rot
	FoodSqDist      float64
	EnemyBearing    geom.Rot
	EnemySqDist     float64
	EnemyHue        float64
	EnemySaturation float64
}

// Update scans food and other live individuals for the nearest of each.
func (e *Eye) Update(env Env, self *Individual) {
	pos := self.Pos()

	*e = Eye{
		FoodSqDist:      math.MaxFloat64,
		EnemySqDist:     math.MaxFloat64,
		EnemyHue:        -1,
		EnemySaturation: -1,
	}

	var food *Food
	for f := range env.Food().All() {
		if d := f.Pos().Sub(pos).SquareLength(); d < e.FoodSqDist {
			e.FoodSqDist, food = d, f
		}
	}
	if food != nil {
		e.FoodBearing = bearing(pos, food.Pos(), self.heading)
	}

	var enemy *Individual
	for o := range env.Individuals().All() {
		if o == self || o.dead {
			continue
		}
		if d := o.Pos().Sub(pos).SquareLength(); d < e.EnemySqDist {
			e.EnemySqDist, enemy = d, o
		}
	}
	if enemy != nil {
		e.EnemyBearing = bearing(pos, enemy.Pos(), self.heading)
		e.EnemyHue = enemy.color.H
		e.EnemySaturation = enemy.color.S
	}
}

// bearing is the direction to target relative to heading.
func bearing(from, target geom.Vec, heading geom.Rot) geom.Rot {
	return target.Sub(from).Angle().Sub(heading)
}
