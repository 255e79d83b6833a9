package policy

import (
	"fmt"

	"github.com/samuelfneumann/daxqn/environment"
	"github.com/samuelfneumann/daxqn/network"
	"gorgonia.org/tensor"
)

// Decoupled is a decoupled Q-network policy for continuous actions.
// Each of the D action dimensions is discretized into B bins spaced
// evenly over the bounds of the action spec. The network predicts D*B
// values, dimension major, and each dimension ε-greedily selects its
// own bin.
type Decoupled struct {
	EGreedy
	dims, bins int
	low, high  []float64
}

// NewDecoupled returns a new decoupled policy over the actions described
// by actionSpec
func NewDecoupled(net network.NeuralNet, actionSpec environment.Spec,
	bins int, epsilon float64, seed uint64) (*Decoupled, error) {
	if actionSpec.Cardinality != environment.Continuous {
		return nil, fmt.Errorf("newdecoupled: actions must be continuous")
	}
	if bins < 2 {
		return nil, fmt.Errorf("newdecoupled: at least 2 bins are needed "+
			"\n\thave(%v)", bins)
	}

	dims := actionSpec.LowerBound.Len()
	if net.Outputs() != dims*bins {
		return nil, fmt.Errorf("newdecoupled: network must predict one "+
			"value per bin per action dimension \n\twant(%v)\n\thave(%v)",
			dims*bins, net.Outputs())
	}

	eGreedy, err := NewEGreedy(net, epsilon, seed)
	if err != nil {
		return nil, fmt.Errorf("newdecoupled: %v", err)
	}

	low := make([]float64, dims)
	high := make([]float64, dims)
	for i := 0; i < dims; i++ {
		low[i] = actionSpec.LowerBound.AtVec(i)
		high[i] = actionSpec.UpperBound.AtVec(i)
	}

	return &Decoupled{
		EGreedy: *eGreedy,
		dims:    dims,
		bins:    bins,
		low:     low,
		high:    high,
	}, nil
}

// Forward returns a (batch, dims) tensor of continuous actions
func (d *Decoupled) Forward(obs *tensor.Dense) (interface{}, error) {
	values, err := d.run(obs)
	if err != nil {
		return nil, fmt.Errorf("forward: %v", err)
	}

	batchValues := rows(values)
	actions := make([]float64, 0, len(batchValues)*d.dims)
	for _, row := range batchValues {
		for dim := 0; dim < d.dims; dim++ {
			bin := d.selectIndex(row[dim*d.bins : (dim+1)*d.bins])
			actions = append(actions, d.binValue(dim, bin))
		}
	}

	return tensor.New(tensor.WithShape(len(batchValues), d.dims),
		tensor.WithBacking(actions)), nil
}

// binValue returns the action value of a bin in dimension dim
func (d *Decoupled) binValue(dim, bin int) float64 {
	width := (d.high[dim] - d.low[dim]) / float64(d.bins-1)
	return d.low[dim] + float64(bin)*width
}

// Bins returns the number of bins per action dimension
func (d *Decoupled) Bins() int {
	return d.bins
}

