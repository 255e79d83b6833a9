package solver

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// RMSPropConfig configures an RMSProp solver
type RMSPropConfig struct {
	StepSize float64
	Epsilon  float64
	Eta      float64 // Gorgonia only supports the default of 0.001
	Rho      float64
	Batch    int
	Clip     float64 // <= 0 if no clipping
}

// NewDefaultRMSProp returns an RMSProp solver with ε = 1e-8 and
// ρ = 0.999 which does not clip gradients
func NewDefaultRMSProp(stepSize float64, batchSize int) (*Solver, error) {
	return NewRMSProp(stepSize, 1e-8, 0.001, 0.999, batchSize, -1.0)
}

// NewRMSProp returns an RMSProp solver
func NewRMSProp(stepSize, epsilon, eta, rho float64, batchSize int,
	clip float64) (*Solver, error) {
	return newSolver(RMSPropConfig{
		StepSize: stepSize,
		Epsilon:  epsilon,
		Eta:      eta,
		Rho:      rho,
		Batch:    batchSize,
		Clip:     clip,
	})
}

func (RMSPropConfig) Type() Type { return RMSProp }

// Validate checks the hyperparameters of the solver
func (r RMSPropConfig) Validate() error {
	if err := validateStep(r.StepSize, r.Batch); err != nil {
		return err
	}
	if r.Eta != 0.001 {
		return fmt.Errorf("validate: only the default value of " +
			"η = 0.001 is currently supported")
	}
	if r.Rho <= 0 || r.Rho >= 1 {
		return fmt.Errorf("validate: rho must be in (0, 1) \n\thave(%v)",
			r.Rho)
	}
	return nil
}

// Create returns the Gorgonia solver
func (r RMSPropConfig) Create() G.Solver {
	opts := []G.SolverOpt{
		G.WithLearnRate(r.StepSize),
		G.WithEps(r.Epsilon),
		G.WithRho(r.Rho),
		G.WithBatchSize(float64(r.Batch)),
	}
	return G.NewRMSPropSolver(withClip(opts, r.Clip)...)
}
