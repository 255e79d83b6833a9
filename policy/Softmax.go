package policy

import (
	"fmt"

	"github.com/samuelfneumann/daxqn/distribution"
	"github.com/samuelfneumann/daxqn/network"
	"golang.org/x/exp/rand"
	"gorgonia.org/tensor"
)

// Softmax is a Boltzmann policy over the logits predicted by a network
// with one output per action
type Softmax struct {
	runner
	temperature float64
	src         rand.Source
}

// NewSoftmax returns a new softmax policy with temperature τ
func NewSoftmax(net network.NeuralNet, temperature float64,
	seed uint64) (*Softmax, error) {
	if temperature <= 0 {
		return nil, fmt.Errorf("newsoftmax: temperature must be positive "+
			"\n\thave(%v)", temperature)
	}

	return &Softmax{
		runner:      newRunner(net),
		temperature: temperature,
		src:         rand.NewSource(seed),
	}, nil
}

// Forward returns a *distribution.Categorical over actions
func (s *Softmax) Forward(obs *tensor.Dense) (interface{}, error) {
	logits, err := s.run(obs)
	if err != nil {
		return nil, fmt.Errorf("forward: %v", err)
	}

	if s.temperature != 1.0 {
		if logits, err = logits.DivScalar(s.temperature, true); err != nil {
			return nil, fmt.Errorf("forward: could not scale logits: %v",
				err)
		}
	}

	return distribution.NewCategorical(logits, s.src)
}
