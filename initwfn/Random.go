package initwfn

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// UniformConfig draws weights uniformly from [Low, High)
type UniformConfig struct {
	Low, High float64
}

// NewUniform returns an initializer drawing weights uniformly from
// [low, high)
func NewUniform(low, high float64) (*InitWFn, error) {
	return newInitWFn(UniformConfig{Low: low, High: high})
}

func (UniformConfig) Type() Type { return Uniform }

// Validate checks that the interval is not empty
func (u UniformConfig) Validate() error {
	if u.Low >= u.High {
		return fmt.Errorf("validate: uniform bounds must satisfy low < "+
			"high \n\thave(%v, %v)", u.Low, u.High)
	}
	return nil
}

// Create returns the Gorgonia initializer
func (u UniformConfig) Create() G.InitWFn {
	return G.Uniform(u.Low, u.High)
}

// GaussianConfig draws weights from a normal distribution
type GaussianConfig struct {
	Mean, StdDev float64
}

// NewGaussian returns an initializer drawing weights from a normal
// distribution
func NewGaussian(mean, stddev float64) (*InitWFn, error) {
	return newInitWFn(GaussianConfig{Mean: mean, StdDev: stddev})
}

func (GaussianConfig) Type() Type { return Gaussian }

// Validate checks that the standard deviation is positive
func (g GaussianConfig) Validate() error {
	if g.StdDev <= 0 {
		return fmt.Errorf("validate: standard deviation must be "+
			"positive \n\thave(%v)", g.StdDev)
	}
	return nil
}

// Create returns the Gorgonia initializer
func (g GaussianConfig) Create() G.InitWFn {
	return G.Gaussian(g.Mean, g.StdDev)
}
