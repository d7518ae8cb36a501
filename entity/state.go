package entity

import (
	"fmt"
	"slices"

	"github.com/pthm-cable/aipop/config"
	"github.com/pthm-cable/aipop/geom"
	"github.com/pthm-cable/aipop/neural"
)

// IndividualState is the persisted form of an Individual. The eye and the
// cached shape are rebuilt on the next step.
type IndividualState struct {
	ID               uint64         `json:"id"`
	Pos              geom.Vec       `json:"pos"`
	Vel              geom.Vec       `json:"vel"`
	Heading          float64        `json:"heading"`
	AngularVelocity  float64        `json:"angular_velocity"`
	Color            Color          `json:"color"`
	Radius           float64        `json:"radius"`
	HalfLength       float64        `json:"half_length"`
	Energy           float64        `json:"energy"`
	Age              int64          `json:"age"`
	Generation       int64          `json:"generation"`
	MutationRate     float64        `json:"mutation_rate"`
	Memory           []float64      `json:"memory"`
	WantsToEat       bool           `json:"wants_to_eat"`
	WantsToReproduce bool           `json:"wants_to_reproduce"`
	Brain            neural.Weights `json:"brain"`
}

// FoodState is the persisted form of a Food.
type FoodState struct {
	Pos    geom.Vec `json:"pos"`
	Radius float64  `json:"radius"`
}

// State captures the individual.
func (ind *Individual) State() IndividualState {
	return IndividualState{
		ID:               ind.id,
		Pos:              ind.pos,
		Vel:              ind.vel,
		Heading:          ind.heading.Radians(),
		AngularVelocity:  ind.angVel,
		Color:            ind.color,
		Radius:           ind.radius,
		HalfLength:       ind.halfLength,
		Energy:           ind.energy,
		Age:              ind.age,
		Generation:       ind.generation,
		MutationRate:     ind.mutationRate,
		Memory:           slices.Clone(ind.memory),
		WantsToEat:       ind.wantsToEat,
		WantsToReproduce: ind.wantsToReproduce,
		Brain:            ind.brain.Weights(),
	}
}

// IndividualFromState rebuilds an individual, checking that its brain fits
// its memory size.
func IndividualFromState(s IndividualState) (*Individual, error) {
	brain, err := neural.FromWeights(s.Brain)
	if err != nil {
		return nil, fmt.Errorf("individual %d: %w", s.ID, err)
	}
	if brain.Inputs() != config.SensorInputs+len(s.Memory) || brain.Outputs() != config.ActionOutputs+len(s.Memory) {
		return nil, fmt.Errorf("individual %d: %dx%d brain does not fit %d memory slots: %w",
			s.ID, brain.Inputs(), brain.Outputs(), len(s.Memory), neural.ErrInvalidWeights)
	}
	if s.Pos.IsNaN() {
		return nil, fmt.Errorf("individual %d: %w", s.ID, ErrNumericCorruption)
	}

	return &Individual{
		Motion: Motion{
			Body:    Body{pos: s.Pos, color: s.Color},
			vel:     s.Vel,
			heading: geom.NewRot(s.Heading),
			angVel:  s.AngularVelocity,
		},
		id:               s.ID,
		radius:           s.Radius,
		halfLength:       s.HalfLength,
		energy:           s.Energy,
		brain:            brain,
		memory:           slices.Clone(s.Memory),
		age:              s.Age,
		generation:       s.Generation,
		mutationRate:     s.MutationRate,
		wantsToEat:       s.WantsToEat,
		wantsToReproduce: s.WantsToReproduce,
		eatingTick:       -1,
		eatenTick:        -1,
	}, nil
}

// State captures the food item.
func (f *Food) State() FoodState {
	return FoodState{Pos: f.pos, Radius: f.radius}
}

// FoodFromState rebuilds a food item.
func FoodFromState(s FoodState) *Food {
	return NewFood(s.Pos, s.Radius)
}
