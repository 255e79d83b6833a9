package policy

import (
	"fmt"

	"github.com/samuelfneumann/daxqn/distribution"
	"github.com/samuelfneumann/daxqn/network"
	"golang.org/x/exp/rand"
	"gorgonia.org/tensor"
)

// Gaussian is a Gaussian policy with state dependent means, predicted
// by a network with one output per action dimension, and a fixed
// standard deviation
type Gaussian struct {
	runner
	stddev float64
	src    rand.Source
}

// NewGaussian returns a new Gaussian policy
func NewGaussian(net network.NeuralNet, stddev float64,
	seed uint64) (*Gaussian, error) {
	if stddev <= 0 {
		return nil, fmt.Errorf("newgaussian: standard deviation must be "+
			"positive \n\thave(%v)", stddev)
	}

	return &Gaussian{
		runner: newRunner(net),
		stddev: stddev,
		src:    rand.NewSource(seed),
	}, nil
}

// Forward returns a *distribution.Normal over actions
func (g *Gaussian) Forward(obs *tensor.Dense) (interface{}, error) {
	means, err := g.run(obs)
	if err != nil {
		return nil, fmt.Errorf("forward: %v", err)
	}
	return distribution.NewNormal(means, g.stddev, g.src)
}
