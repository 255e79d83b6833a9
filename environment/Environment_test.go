package environment

import (
	"testing"

	"github.com/samuelfneumann/daxqn/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestUniformStarterBounds(t *testing.T) {
	bounds := []r1.Interval{{Min: -0.05, Max: 0.05}, {Min: 1, Max: 2}}
	s := NewUniformStarter(bounds, 7)

	for i := 0; i < 100; i++ {
		start := s.Start()
		require.Equal(t, 2, start.Len())
		for j, b := range bounds {
			assert.GreaterOrEqual(t, start.AtVec(j), b.Min)
			assert.LessOrEqual(t, start.AtVec(j), b.Max)
		}
	}
}

func TestStepLimit(t *testing.T) {
	ender := NewStepLimit(3)
	step := timestep.New(timestep.Mid, 0, 0.99, mat.NewVecDense(1, nil), 2)

	assert.False(t, ender.End(&step))
	assert.True(t, step.Mid())

	step.Number = 3
	assert.True(t, ender.End(&step))
	assert.True(t, step.Last())
	assert.Equal(t, 0.99, step.Discount)
}

func TestNumActions(t *testing.T) {
	spec := NewSpec(
		mat.NewVecDense(1, nil),
		Action,
		mat.NewVecDense(1, []float64{0}),
		mat.NewVecDense(1, []float64{2}),
		Discrete,
	)
	n, err := spec.NumActions()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	spec.Cardinality = Continuous
	_, err = spec.NumActions()
	assert.Error(t, err)
}
