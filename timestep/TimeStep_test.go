package timestep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestStepTypes(t *testing.T) {
	obs := mat.NewVecDense(2, []float64{1, 2})

	first := New(First, 0, 1, obs, 0)
	mid := New(Mid, 1, 0.99, obs, 1)
	last := New(Last, 1, 0, obs, 2)

	assert.True(t, first.First())
	assert.False(t, first.Last())
	assert.True(t, mid.Mid())
	assert.True(t, last.Last())
	assert.Equal(t, "Last", last.StepType.String())
}

func TestNewTransition(t *testing.T) {
	s := New(First, 0, 1, mat.NewVecDense(1, []float64{0}), 0)
	next := New(Mid, 2.5, 0.9, mat.NewVecDense(1, []float64{1}), 1)
	a := mat.NewVecDense(1, []float64{3})

	tr := NewTransition(s, a, next, nil)

	assert.Equal(t, 2.5, tr.Reward)
	assert.Equal(t, 0.9, tr.Discount)
	assert.Equal(t, 1.0, tr.NextState.AtVec(0))
	assert.Equal(t, 3.0, tr.Action.AtVec(0))
}
