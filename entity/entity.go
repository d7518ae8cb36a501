// Package entity implements the things that live in the arena: passive food
// and the individuals that eat it, each other, and reproduce.
package entity

import (
	"errors"
	"math/rand/v2"

	"github.com/pthm-cable/aipop/canvas"
	"github.com/pthm-cable/aipop/config"
	"github.com/pthm-cable/aipop/entityset"
	"github.com/pthm-cable/aipop/geom"
)

// ErrNumericCorruption is returned when an individual's position becomes NaN.
var ErrNumericCorruption = errors.New("numeric corruption")

// Env is the world as seen by an individual during its step.
type Env interface {
	Config() *config.Config
	Rand() *rand.Rand
	TickCount() int64
	Width() float64
	Height() float64
	Food() *entityset.Set[*Food]
	Individuals() *entityset.Set[*Individual]
	NextID() uint64
	// SpawnRandomIndividual adds a fresh individual at a random position.
	SpawnRandomIndividual() *Individual
	Events() Events
}

// Events receives entity-level happenings for telemetry.
type Events interface {
	RecordBirths(n int)
	RecordStarvation()
	RecordFoodEaten(n int)
	RecordBite(amount float64)
}

// Entity is anything that occupies the arena.
type Entity interface {
	Pos() geom.Vec
	Shape() geom.Shape
	Draw(dst canvas.Surface, opts DrawOptions)
}

// Movable is an entity with velocity and heading.
type Movable interface {
	Entity
	Velocity() geom.Vec
	Heading() geom.Rot
	Integrate()
}

var (
	_ Entity  = (*Food)(nil)
	_ Movable = (*Individual)(nil)
)

// DrawOptions controls per-frame rendering.
type DrawOptions struct {
	Tick           int64
	ShowGeneration bool
}

// Body holds position, color and the lazily built collision shape.
// Every position write goes through SetPos, which drops the cached shape.
type Body struct {
	pos   geom.Vec
	color Color
	shape geom.Shape
}

// Pos returns the center position.
func (b *Body) Pos() geom.Vec { return b.pos }

// Color returns the base render color.
func (b *Body) Color() Color { return b.color }

// SetPos moves the body.
func (b *Body) SetPos(p geom.Vec) {
	b.pos = p
	b.shape = nil
}

// cachedShape returns the cached shape, building it if stale.
func (b *Body) cachedShape(build func() geom.Shape) geom.Shape {
	if b.shape == nil {
		b.shape = build()
	}
	return b.shape
}

// Motion adds linear and angular motion to a Body. Angular velocity and
// acceleration are signed radians per tick.
type Motion struct {
	Body
	vel, acc       geom.Vec
	heading        geom.Rot
	angVel, angAcc float64
}

// Velocity returns the linear velocity in px per tick.
func (m *Motion) Velocity() geom.Vec { return m.vel }

// Heading returns the facing direction.
func (m *Motion) Heading() geom.Rot { return m.heading }

// AngularVelocity returns the signed angular velocity in radians per tick.
func (m *Motion) AngularVelocity() float64 { return m.angVel }

// SetHeading turns the body.
func (m *Motion) SetHeading(r geom.Rot) {
	m.heading = r
	m.shape = nil
}

// Integrate applies one tick of acceleration and velocity.
func (m *Motion) Integrate() {
	m.vel = m.vel.Add(m.acc)
	m.angVel += m.angAcc
	m.SetPos(m.pos.Add(m.vel))
	m.SetHeading(m.heading.Add(geom.Rot(m.angVel)))
}
