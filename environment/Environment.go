// Package environment outlines the interfaces and structs needed to
// implement concrete environments that an actor can interact with
package environment

import (
	"github.com/fogleman/gg"
	"github.com/samuelfneumann/daxqn/timestep"
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting states and samples starting
// states for environments
type Starter interface {
	Start() mat.Vector
}

// Ender determines when an episode should end. If the episode should
// end, the Ender sets the StepType of the TimeStep to timestep.Last.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Environment implements a simulated environment. Reset must be called
// before the first call to Step.
type Environment interface {
	Reset() (timestep.TimeStep, error)
	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)
	RewardSpec() Spec
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}

// Renderer is an Environment that can draw its current state
type Renderer interface {
	Environment

	// Render draws the current state onto the context. The drawing
	// should fill the whole context.
	Render(dc *gg.Context)
}
