package policy

import (
	"testing"

	"github.com/samuelfneumann/daxqn/distribution"
	"github.com/samuelfneumann/daxqn/environment"
	"github.com/samuelfneumann/daxqn/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// linearNet returns a linear network without biases whose (in, out)
// weight matrix is set to weights
func linearNet(t *testing.T, in, out int, weights []float64) network.NeuralNet {
	t.Helper()

	net, err := network.NewMLP(in, 1, out, G.NewGraph(), []int{},
		[]bool{false}, G.Zeroes(), []*network.Activation{network.Identity()})
	require.NoError(t, err)

	w := tensor.New(tensor.WithShape(in, out), tensor.WithBacking(weights))
	require.NoError(t, G.Let(net.Learnables()[0], w))

	return net
}

func obs(values ...float64) *tensor.Dense {
	return tensor.New(tensor.WithShape(1, len(values)),
		tensor.WithBacking(values))
}

// first returns the first value of a tensor
func first(t *testing.T, d *tensor.Dense) float64 {
	t.Helper()

	v, err := d.At(0)
	require.NoError(t, err)
	return v.(float64)
}

func TestEGreedyGreedy(t *testing.T) {
	net := linearNet(t, 2, 3, []float64{0, 1, 0, 0, 1, 0})
	p, err := NewEGreedy(net, 0.0, 1)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		out, err := p.Forward(obs(1, 1))
		require.NoError(t, err)

		action := out.(*tensor.Dense)
		assert.Equal(t, tensor.Shape{1}, action.Shape())
		assert.Equal(t, 1.0, first(t, action))
	}
}

func TestEGreedyExplores(t *testing.T) {
	net := linearNet(t, 2, 3, []float64{0, 1, 0, 0, 1, 0})
	p, err := NewEGreedy(net, 1.0, 1)
	require.NoError(t, err)

	seen := map[float64]bool{}
	for i := 0; i < 100; i++ {
		out, err := p.Forward(obs(1, 1))
		require.NoError(t, err)
		seen[first(t, out.(*tensor.Dense))] = true
	}
	assert.Len(t, seen, 3)
}

func TestEGreedyEpsilon(t *testing.T) {
	net := linearNet(t, 1, 1, []float64{1})
	_, err := NewEGreedy(net, 1.5, 1)
	assert.Error(t, err)
}

func TestBatchMismatch(t *testing.T) {
	net := linearNet(t, 2, 2, []float64{1, 0, 0, 1})
	p, err := NewEGreedy(net, 0, 1)
	require.NoError(t, err)

	batch := tensor.New(tensor.WithShape(2, 2),
		tensor.WithBacking([]float64{1, 2, 3, 4}))
	_, err = p.Forward(batch)
	assert.Error(t, err)
}

func TestSoftmax(t *testing.T) {
	net := linearNet(t, 1, 2, []float64{-50, 50})
	p, err := NewSoftmax(net, 1.0, 3)
	require.NoError(t, err)

	out, err := p.Forward(obs(1))
	require.NoError(t, err)

	dist, ok := out.(*distribution.Categorical)
	require.True(t, ok)
	assert.Equal(t, 1, dist.BatchSize())
	assert.InDelta(t, 1.0, dist.Prob(0, 1), 1e-9)
}

func TestDecoupled(t *testing.T) {
	actionSpec := environment.NewSpec(
		mat.NewVecDense(2, nil),
		environment.Action,
		mat.NewVecDense(2, []float64{-2, 0}),
		mat.NewVecDense(2, []float64{2, 1}),
		environment.Continuous,
	)

	// Dimension 0 prefers its last bin and dimension 1 its middle bin
	net := linearNet(t, 1, 6, []float64{0, 0, 1, 0, 1, 0})
	p, err := NewDecoupled(net, actionSpec, 3, 0.0, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Bins())

	out, err := p.Forward(obs(1))
	require.NoError(t, err)

	action := out.(*tensor.Dense)
	assert.Equal(t, tensor.Shape{1, 2}, action.Shape())
	assert.InDeltaSlice(t, []float64{2, 0.5}, action.Data(), 1e-12)
}

func TestDecoupledOutputs(t *testing.T) {
	actionSpec := environment.NewSpec(
		mat.NewVecDense(1, nil),
		environment.Action,
		mat.NewVecDense(1, []float64{-1}),
		mat.NewVecDense(1, []float64{1}),
		environment.Continuous,
	)
	net := linearNet(t, 1, 4, []float64{0, 0, 0, 0})
	_, err := NewDecoupled(net, actionSpec, 3, 0.0, 1)
	assert.Error(t, err)
}

func TestGaussian(t *testing.T) {
	net := linearNet(t, 2, 1, []float64{1, 1})
	p, err := NewGaussian(net, 1e-3, 7)
	require.NoError(t, err)

	out, err := p.Forward(obs(0.5, 0.25))
	require.NoError(t, err)

	dist, ok := out.(*distribution.Normal)
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{0.75}, dist.Mean(0), 1e-12)
}
