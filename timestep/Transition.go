package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Transition is a single (s, a, r, γ, s', a') tuple. For n-step
// transitions, Reward holds the discounted sum of the n rewards and
// Discount the product of the n discounts.
type Transition struct {
	State      mat.Vector
	Action     mat.Vector
	Reward     float64
	Discount   float64
	NextState  mat.Vector
	NextAction mat.Vector
}

// NewTransition creates a transition from two consecutive timesteps
// and the actions taken in each.
func NewTransition(step TimeStep, action mat.Vector, nextStep TimeStep,
	nextAction mat.Vector) Transition {
	return Transition{
		State:      step.Observation,
		Action:     action,
		Reward:     nextStep.Reward,
		Discount:   nextStep.Discount,
		NextState:  nextStep.Observation,
		NextAction: nextAction,
	}
}

func (t Transition) String() string {
	return fmt.Sprintf("Transition | Reward: %.2f  |  Discount: %.2f",
		t.Reward, t.Discount)
}
