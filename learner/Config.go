package learner

import (
	"fmt"

	"github.com/samuelfneumann/daxqn/solver"
)

// Config implements a configuration for a DeepQ learner
type Config struct {
	Solver *solver.Solver // Solver for learning weights

	// Target net updates
	Tau                  float64 // Polyak averaging constant
	TargetUpdateInterval int     // Number of gradient steps between updates

	// Bins is the number of bins each continuous action dimension is
	// discretized into. It is ignored for discrete actions.
	Bins int
}

// Validate checks a Config for errors
func (c Config) Validate() error {
	if c.Solver == nil {
		return fmt.Errorf("validate: a solver is required")
	}
	if c.Tau <= 0 || c.Tau > 1 {
		return fmt.Errorf("validate: tau must be in (0, 1] \n\thave(%v)",
			c.Tau)
	}
	if c.TargetUpdateInterval < 1 {
		return fmt.Errorf("validate: target update interval must be "+
			"positive \n\thave(%v)", c.TargetUpdateInterval)
	}
	return nil
}
