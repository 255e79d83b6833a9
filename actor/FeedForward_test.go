package actor

import (
	"errors"
	"testing"

	"github.com/samuelfneumann/daxqn/adder"
	"github.com/samuelfneumann/daxqn/distribution"
	"github.com/samuelfneumann/daxqn/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// policyFunc adapts a function to a PolicyNetwork
type policyFunc func(obs *tensor.Dense) (interface{}, error)

func (p policyFunc) Forward(obs *tensor.Dense) (interface{}, error) {
	return p(obs)
}

type recordingAdder struct {
	first   []timestep.TimeStep
	actions []mat.Vector
	err     error
}

func (r *recordingAdder) AddFirst(t timestep.TimeStep) error {
	r.first = append(r.first, t)
	return r.err
}

func (r *recordingAdder) Add(a mat.Vector, _ timestep.TimeStep) error {
	r.actions = append(r.actions, a)
	return r.err
}

func (r *recordingAdder) Reset() {}

type recordingClient struct {
	waits []bool
}

func (r *recordingClient) Update(wait bool) error {
	r.waits = append(r.waits, wait)
	return nil
}

func TestSelectActionTensor(t *testing.T) {
	var seen tensor.Shape
	policy := policyFunc(func(obs *tensor.Dense) (interface{}, error) {
		seen = obs.Shape().Clone()
		data := obs.Data().([]float64)
		return tensor.New(tensor.WithShape(1, 2),
			tensor.WithBacking([]float64{2 * data[0], 2 * data[2]})), nil
	})

	a, err := NewFeedForward(policy, nil, nil)
	require.NoError(t, err)

	action, err := a.SelectAction(mat.NewVecDense(3, []float64{1, 2, 3}))
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{1, 3}, seen)
	assert.Equal(t, []float64{2, 6}, action.RawVector().Data)
}

func TestSelectActionDiscrete(t *testing.T) {
	policy := policyFunc(func(*tensor.Dense) (interface{}, error) {
		return tensor.New(tensor.WithShape(1),
			tensor.WithBacking([]float64{4})), nil
	})
	a, err := NewFeedForward(policy, nil, nil)
	require.NoError(t, err)

	action, err := a.SelectAction(mat.NewVecDense(1, nil))
	require.NoError(t, err)
	assert.Equal(t, 1, action.Len())
	assert.Equal(t, 4.0, action.AtVec(0))
}

func TestSelectActionDistribution(t *testing.T) {
	policy := policyFunc(func(*tensor.Dense) (interface{}, error) {
		logits := tensor.New(tensor.WithShape(1, 3),
			tensor.WithBacking([]float64{-100, -100, 100}))
		return distribution.NewCategorical(logits, rand.NewSource(1))
	})
	a, err := NewFeedForward(policy, nil, nil)
	require.NoError(t, err)

	action, err := a.SelectAction(mat.NewVecDense(2, nil))
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, action.RawVector().Data)
}

func TestSelectActionErrors(t *testing.T) {
	tests := []struct {
		name   string
		output interface{}
		err    error
	}{
		{"batch", tensor.New(tensor.WithShape(2, 1),
			tensor.WithBacking([]float64{1, 2})), nil},
		{"type", []float64{1}, nil},
		{"policy", nil, errors.New("failed")},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			policy := policyFunc(func(*tensor.Dense) (interface{}, error) {
				return test.output, test.err
			})
			a, err := NewFeedForward(policy, nil, nil)
			require.NoError(t, err)

			_, err = a.SelectAction(mat.NewVecDense(1, nil))
			assert.Error(t, err)
		})
	}
}

func TestAbsentCollaborators(t *testing.T) {
	a, err := NewFeedForward(policyFunc(nil), nil, nil)
	require.NoError(t, err)

	step := timestep.New(timestep.First, 0, 1, mat.NewVecDense(1, nil), 0)
	assert.NoError(t, a.ObserveFirst(step))
	assert.NoError(t, a.Observe(mat.NewVecDense(1, nil), step))
	assert.NoError(t, a.Update(true))
	assert.NoError(t, a.Update(false))
}

func TestNilPointerCollaborators(t *testing.T) {
	var nStep *adder.NStepTransition
	var client *recordingClient
	a, err := NewFeedForward(policyFunc(nil), nStep, client)
	require.NoError(t, err)

	step := timestep.New(timestep.First, 0, 1, mat.NewVecDense(1, nil), 0)
	assert.NotPanics(t, func() {
		assert.NoError(t, a.ObserveFirst(step))
		assert.NoError(t, a.Observe(mat.NewVecDense(1, nil), step))
		assert.NoError(t, a.Update(true))
	})
}

func TestCollaborators(t *testing.T) {
	rec := &recordingAdder{}
	client := &recordingClient{}
	a, err := NewFeedForward(policyFunc(nil), rec, client)
	require.NoError(t, err)

	first := timestep.New(timestep.First, 0, 1, mat.NewVecDense(1, nil), 0)
	next := timestep.New(timestep.Mid, 1, 1, mat.NewVecDense(1, nil), 1)
	action := mat.NewVecDense(1, []float64{3})

	require.NoError(t, a.ObserveFirst(first))
	require.NoError(t, a.Observe(action, next))
	require.NoError(t, a.Update(false))
	require.NoError(t, a.Update(true))

	assert.Len(t, rec.first, 1)
	assert.Same(t, action, rec.actions[0])
	assert.Equal(t, []bool{false, true}, client.waits)

	rec.err = errors.New("full")
	assert.Error(t, a.Observe(action, next))
}

func TestNilPolicy(t *testing.T) {
	_, err := NewFeedForward(nil, nil, nil)
	assert.Error(t, err)
}
