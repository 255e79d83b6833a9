package solver

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// AdamConfig configures an Adam solver
type AdamConfig struct {
	StepSize     float64
	Epsilon      float64
	Beta1, Beta2 float64 // Decay rates of the moment estimates
	Batch        int
	Clip         float64 // <= 0 if no clipping
}

// NewDefaultAdam returns an Adam solver with ε = 1e-8, β₁ = 0.9 and
// β₂ = 0.999 which does not clip gradients
func NewDefaultAdam(stepSize float64, batchSize int) (*Solver, error) {
	return NewAdam(stepSize, 1e-8, 0.9, 0.999, batchSize, -1)
}

// NewAdam returns an Adam solver
func NewAdam(stepSize, epsilon, beta1, beta2 float64, batchSize int,
	clip float64) (*Solver, error) {
	return newSolver(AdamConfig{
		StepSize: stepSize,
		Epsilon:  epsilon,
		Beta1:    beta1,
		Beta2:    beta2,
		Batch:    batchSize,
		Clip:     clip,
	})
}

func (AdamConfig) Type() Type { return Adam }

// Validate checks the hyperparameters of the solver
func (a AdamConfig) Validate() error {
	if err := validateStep(a.StepSize, a.Batch); err != nil {
		return err
	}
	if a.Epsilon < 0 {
		return fmt.Errorf("validate: epsilon must be non-negative "+
			"\n\thave(%v)", a.Epsilon)
	}
	if a.Beta1 < 0 || a.Beta1 >= 1 || a.Beta2 < 0 || a.Beta2 >= 1 {
		return fmt.Errorf("validate: betas must be in [0, 1) "+
			"\n\thave(%v, %v)", a.Beta1, a.Beta2)
	}
	return nil
}

// Create returns the Gorgonia solver
func (a AdamConfig) Create() G.Solver {
	opts := []G.SolverOpt{
		G.WithLearnRate(a.StepSize),
		G.WithEps(a.Epsilon),
		G.WithBeta1(a.Beta1),
		G.WithBeta2(a.Beta2),
		G.WithBatchSize(float64(a.Batch)),
	}
	return G.NewAdamSolver(withClip(opts, a.Clip)...)
}
