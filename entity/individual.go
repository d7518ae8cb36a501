package entity

import (
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/pthm-cable/aipop/canvas"
	"github.com/pthm-cable/aipop/config"
	"github.com/pthm-cable/aipop/geom"
	"github.com/pthm-cable/aipop/neural"
)

// Brain output slots before the memory block.
const (
	outThrust = iota
	outTurn
	outEat
	outReproduce
)

// Sensor values are scaled against this squared distance.
const sightScale = 10000.0

var (
	eatingColor = color.RGBA{G: 255, A: 255}
	eatenColor  = color.RGBA{R: 255, A: 255}
	labelColor  = color.RGBA{A: 255}
)

// Individual is an agent with a capsule body, an energy budget and a neural
// network brain.
type Individual struct {
	Motion

	id           uint64
	radius       float64
	halfLength   float64
	energy       float64
	brain        *neural.Network
	memory       []float64
	age          int64
	generation   int64
	mutationRate float64

	wantsToEat       bool
	wantsToReproduce bool
	eatingTick       int64 // tick of the last bite taken, -1 if none
	eatenTick        int64 // tick of the last bite suffered, -1 if none
	dead             bool
	lastInput        []float64 // brain input of the last think, nil before the first

	eye Eye
}

// NewIndividual creates a generation-0 individual at rest using the body and
// genome defaults of cfg.
func NewIndividual(id uint64, pos geom.Vec, heading geom.Rot, col Color, brain *neural.Network, cfg *config.Config) *Individual {
	ic := cfg.Individual
	return &Individual{
		Motion:       Motion{Body: Body{pos: pos, color: col}, heading: heading},
		id:           id,
		radius:       ic.Radius,
		halfLength:   ic.HalfLength,
		energy:       ic.InitialEnergy,
		brain:        brain,
		memory:       make([]float64, ic.MemorySize),
		mutationRate: ic.MutationRate,
		eatingTick:   -1,
		eatenTick:    -1,
	}
}

func (ind *Individual) ID() uint64               { return ind.id }
func (ind *Individual) Energy() float64          { return ind.energy }
func (ind *Individual) Age() int64               { return ind.age }
func (ind *Individual) Generation() int64        { return ind.generation }
func (ind *Individual) MutationRate() float64    { return ind.mutationRate }
func (ind *Individual) Brain() *neural.Network   { return ind.brain }
func (ind *Individual) Memory() []float64        { return ind.memory }
func (ind *Individual) Radius() float64          { return ind.radius }
func (ind *Individual) HalfLength() float64      { return ind.halfLength }
func (ind *Individual) Eye() Eye                 { return ind.eye }
func (ind *Individual) Dead() bool               { return ind.dead }
func (ind *Individual) WantsToEat() bool         { return ind.wantsToEat }
func (ind *Individual) WantsToReproduce() bool   { return ind.wantsToReproduce }
func (ind *Individual) EatingAt(tick int64) bool { return ind.eatingTick == tick }
func (ind *Individual) EatenAt(tick int64) bool  { return ind.eatenTick == tick }

// LastInput returns the brain input of the most recent step, nil if the
// individual has not stepped since it was created or restored.
func (ind *Individual) LastInput() []float64 { return ind.lastInput }

// SetEnergy overrides the energy. Used for seeding scenarios.
func (ind *Individual) SetEnergy(e float64) { ind.energy = e }

// Shape implements Entity.
func (ind *Individual) Shape() geom.Shape {
	return ind.cachedShape(func() geom.Shape {
		return geom.Capsule(ind.pos, ind.halfLength, ind.radius, ind.heading)
	})
}

// Kill marks the individual dead and removes it from env.
// It reports whether the individual was still present.
func (ind *Individual) Kill(env Env) bool {
	ind.dead = true
	return env.Individuals().Remove(ind)
}

// KillAll marks every individual dead and removes them from the world in one
// update. It returns how many were still present.
func KillAll(env Env, inds ...*Individual) int {
	for _, ind := range inds {
		ind.dead = true
	}
	return env.Individuals().RemoveAll(inds...)
}

// Step advances the individual by one tick. The only error is
// ErrNumericCorruption.
func (ind *Individual) Step(env Env) error {
	cfg := env.Config()

	ind.age++
	ind.eye.Update(env, ind)
	ind.think(env)
	ind.Integrate()
	ind.vel = ind.vel.Scale(cfg.Physics.Friction)
	ind.angVel *= cfg.Physics.AngularFriction
	ind.bounceWalls(env)
	ind.eatFood(env)
	ind.eatEnemy(env)
	ind.payUpkeep(env)

	if ind.pos.IsNaN() {
		return fmt.Errorf("individual %d at tick %d: %w", ind.id, env.TickCount(), ErrNumericCorruption)
	}
	return nil
}

// think feeds the sensors through the brain and stores its decisions.
func (ind *Individual) think(env Env) {
	cfg := env.Config()
	e := ind.eye

	in := make([]float64, 0, config.SensorInputs+len(ind.memory))
	in = append(in,
		ind.energy/100,
		ind.pos.X/env.Width(),
		ind.pos.Y/env.Height(),
		ind.vel.X,
		ind.vel.Y,
		ind.angVel/geom.TwoPi,
		e.FoodBearing.Normalized(),
		sightScale/math.Max(1, e.FoodSqDist),
		e.EnemyBearing.Normalized(),
		sightScale/math.Max(1, e.EnemySqDist),
		e.EnemyHue,
		e.EnemySaturation,
	)
	in = append(in, ind.memory...)
	ind.lastInput = in

	out := ind.brain.Forward(in)

	copy(ind.memory, out[len(out)-len(ind.memory):])
	ind.acc = geom.Unit(ind.heading).Scale(out[outThrust] * cfg.Physics.MaxAcceleration)
	ind.angAcc = out[outTurn] * cfg.Physics.MaxAngularAcceleration
	ind.wantsToEat = out[outEat] > 0
	ind.wantsToReproduce = out[outReproduce] > 0
}

// bounceWalls reflects the individual off any wall it is moving into.
func (ind *Individual) bounceWalls(env Env) {
	p := env.Config().Physics
	w, h, m := env.Width(), env.Height(), p.WallMargin

	if ind.vel.X < 0 && geom.Intersects(ind.Shape(), geom.RectXYWH(-m, 0, m, h)) {
		ind.SetPos(geom.V(ind.Shape().Bounds().Width()/2, ind.pos.Y))
		ind.vel = geom.V(-ind.vel.X, ind.vel.Y).Scale(p.CollisionDamping)
	} else if ind.vel.X > 0 && geom.Intersects(ind.Shape(), geom.RectXYWH(w, 0, m, h)) {
		ind.SetPos(geom.V(w-ind.Shape().Bounds().Width()/2, ind.pos.Y))
		ind.vel = geom.V(-ind.vel.X, ind.vel.Y).Scale(p.CollisionDamping)
	}

	if ind.vel.Y < 0 && geom.Intersects(ind.Shape(), geom.RectXYWH(0, -m, w, m)) {
		ind.SetPos(geom.V(ind.pos.X, ind.Shape().Bounds().Height()/2))
		ind.vel = geom.V(ind.vel.X, -ind.vel.Y).Scale(p.CollisionDamping)
	} else if ind.vel.Y > 0 && geom.Intersects(ind.Shape(), geom.RectXYWH(0, h, w, m)) {
		ind.SetPos(geom.V(ind.pos.X, h-ind.Shape().Bounds().Height()/2))
		ind.vel = geom.V(ind.vel.X, -ind.vel.Y).Scale(p.CollisionDamping)
	}
}

// eatFood consumes every touching food item. Energy is only credited for
// items this individual actually removed.
func (ind *Individual) eatFood(env Env) {
	gain := env.Config().Energy.FoodEnergy
	shape := ind.Shape()
	eaten := 0
	for f := range env.Food().All() {
		if geom.Intersects(shape, f.Shape()) && env.Food().Remove(f) {
			ind.energy += gain
			eaten++
		}
	}
	if eaten > 0 {
		env.Events().RecordFoodEaten(eaten)
	}
}

// eatEnemy takes a bite out of the touching individual with the lowest ID.
func (ind *Individual) eatEnemy(env Env) {
	if !ind.wantsToEat {
		return
	}

	var target *Individual
	for o := range env.Individuals().All() {
		if o == ind || o.dead {
			continue
		}
		reach := ind.halfLength + ind.radius + o.halfLength + o.radius
		if o.pos.Sub(ind.pos).SquareLength() >= reach*reach {
			continue
		}
		if !geom.Intersects(ind.Shape(), o.Shape()) {
			continue
		}
		if target == nil || o.id < target.id {
			target = o
		}
	}
	if target == nil {
		return
	}

	ec := env.Config().Energy
	bite := math.Min(ec.EatRate*ind.energy, target.energy)
	target.energy -= bite
	ind.energy += bite * ec.EatEfficiency

	tick := env.TickCount()
	ind.eatingTick = tick
	target.eatenTick = tick
	env.Events().RecordBite(bite)
}

// payUpkeep charges motion and living costs, handling starvation and the
// energy cap.
func (ind *Individual) payUpkeep(env Env) {
	cfg := env.Config()
	ec := cfg.Energy

	turn := ind.angVel / geom.TwoPi
	ind.energy -= ec.MovingCost*ind.vel.SquareLength() + ec.RotationCost*turn*turn + ec.UpkeepCost

	switch {
	case ind.energy < 0:
		ind.energy = 0
		if ind.Kill(env) {
			env.Events().RecordStarvation()
		}
		if env.Individuals().Len() < cfg.World.MinPopulation {
			env.SpawnRandomIndividual()
		}
	case ind.energy > cfg.Individual.MaxEnergy:
		ind.energy = cfg.Individual.MaxEnergy
	}
}

// Reproduce splits the individual's energy among itself and n children and
// adds the children to env. Without force it does nothing unless the brain
// asked to reproduce on the last step.
func (ind *Individual) Reproduce(env Env, n int, force bool) []*Individual {
	if n <= 0 || (!force && !ind.wantsToReproduce) {
		return nil
	}

	ind.energy /= float64(n + 1)
	children := make([]*Individual, n)
	for i := range children {
		children[i] = ind.offspring(env)
	}
	env.Individuals().AddAll(children...)
	env.Events().RecordBirths(n)
	return children
}

func (ind *Individual) offspring(env Env) *Individual {
	rng := env.Rand()
	cfg := env.Config()
	noise := func(stddev float64) float64 { return rng.NormFloat64() * stddev }

	child := &Individual{
		Motion: Motion{
			Body: Body{
				pos:   ind.pos.Add(geom.V(noise(ind.halfLength), noise(ind.halfLength))),
				color: ind.color.ShiftHue(noise(0.01)),
			},
			vel:     ind.vel.Add(geom.V(noise(0.1), noise(0.1))),
			heading: ind.heading.Add(geom.Rot(noise(0.1))),
			angVel:  ind.angVel + noise(0.05),
		},
		id:           env.NextID(),
		radius:       ind.radius,
		halfLength:   ind.halfLength,
		energy:       ind.energy,
		brain:        ind.brain.Mutate(rng, ind.mutationRate),
		memory:       slices.Clone(ind.memory),
		generation:   ind.generation + 1,
		mutationRate: mutateRate(rng, ind.mutationRate, cfg.Individual.MinMutationRate),
		eatingTick:   -1,
		eatenTick:    -1,
	}
	return child
}

// mutateRate resamples rate + N(0, rate) until the result reaches floor.
func mutateRate(rng *rand.Rand, rate, floor float64) float64 {
	if rate < floor {
		rate = floor
	}
	for {
		if r := rate + rng.NormFloat64()*rate; r >= floor {
			return r
		}
	}
}

// Draw implements Entity. Saturation reflects energy; the outline shows
// eating (green) or being eaten (red) during opts.Tick.
func (ind *Individual) Draw(dst canvas.Surface, opts DrawOptions) {
	sat := math.Min(1, ind.energy/100)*0.75 + 0.25
	shape := ind.Shape().(geom.Union)
	canvas.FillShape(dst, shape, ind.color.WithSaturation(sat).RGBA())

	switch {
	case ind.EatenAt(opts.Tick):
		canvas.StrokeCapsule(dst, shape, 2, eatenColor)
	case ind.EatingAt(opts.Tick):
		canvas.StrokeCapsule(dst, shape, 2, eatingColor)
	}

	if opts.ShowGeneration {
		dst.Text(strconv.FormatInt(ind.generation, 10), ind.pos, 14, labelColor)
	}
}
