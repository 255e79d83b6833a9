package solver

import G "gorgonia.org/gorgonia"

// VanillaConfig configures stochastic gradient descent
type VanillaConfig struct {
	StepSize float64
	Batch    int
	Clip     float64 // <= 0 if no clipping
}

// NewVanilla returns a stochastic gradient descent solver
func NewVanilla(stepSize float64, batchSize int,
	clip float64) (*Solver, error) {
	return newSolver(VanillaConfig{
		StepSize: stepSize,
		Batch:    batchSize,
		Clip:     clip,
	})
}

func (VanillaConfig) Type() Type { return Vanilla }

// Validate checks the hyperparameters of the solver
func (v VanillaConfig) Validate() error {
	return validateStep(v.StepSize, v.Batch)
}

// Create returns the Gorgonia solver
func (v VanillaConfig) Create() G.Solver {
	opts := []G.SolverOpt{
		G.WithLearnRate(v.StepSize),
		G.WithBatchSize(float64(v.Batch)),
	}
	return G.NewVanillaSolver(withClip(opts, v.Clip)...)
}
