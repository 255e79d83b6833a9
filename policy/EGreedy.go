package policy

import (
	"fmt"

	"github.com/samuelfneumann/daxqn/network"
	"github.com/samuelfneumann/daxqn/utils/floatutils"
	"golang.org/x/exp/rand"
	"gorgonia.org/tensor"
)

// EGreedy is an ε-greedy policy over the action values predicted by a
// network with one output per action. With probability ε a uniformly
// random action is taken, otherwise a maximum valued action is taken
// with ties broken randomly.
type EGreedy struct {
	runner
	epsilon float64
	rng     *rand.Rand
}

// NewEGreedy returns a new ε-greedy policy
func NewEGreedy(net network.NeuralNet, epsilon float64,
	seed uint64) (*EGreedy, error) {
	if epsilon < 0 || epsilon > 1 {
		return nil, fmt.Errorf("newegreedy: epsilon must be in [0, 1] "+
			"\n\thave(%v)", epsilon)
	}

	return &EGreedy{
		runner:  newRunner(net),
		epsilon: epsilon,
		rng:     rand.New(rand.NewSource(seed)),
	}, nil
}

// SetEpsilon sets the value of ε
func (e *EGreedy) SetEpsilon(epsilon float64) {
	e.epsilon = epsilon
}

// Epsilon returns the value of ε
func (e *EGreedy) Epsilon() float64 {
	return e.epsilon
}

// Forward returns a (batch) tensor of selected action indices
func (e *EGreedy) Forward(obs *tensor.Dense) (interface{}, error) {
	values, err := e.run(obs)
	if err != nil {
		return nil, fmt.Errorf("forward: %v", err)
	}

	actionValues := rows(values)
	actions := make([]float64, len(actionValues))
	for i, row := range actionValues {
		actions[i] = float64(e.selectIndex(row))
	}

	return tensor.New(tensor.WithShape(len(actions)),
		tensor.WithBacking(actions)), nil
}

// selectIndex selects an index of values ε-greedily
func (e *EGreedy) selectIndex(values []float64) int {
	if e.rng.Float64() < e.epsilon {
		return e.rng.Intn(len(values))
	}

	_, maxIndices := floatutils.MaxSlice(values)
	return maxIndices[e.rng.Intn(len(maxIndices))]
}
