package pendulum

import (
	"math"
	"testing"

	"github.com/samuelfneumann/daxqn/environment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestPendulumStep(t *testing.T) {
	s := environment.NewUniformStarter([]r1.Interval{
		{Min: -math.Pi, Max: math.Pi},
		{Min: -1, Max: 1},
	}, 3)
	p := New(s, environment.NewStepLimit(5), 0.99)

	_, err := p.Reset()
	require.NoError(t, err)

	var done bool
	for i := 0; i < 5; i++ {
		step, d, err := p.Step(mat.NewVecDense(1, []float64{10}))
		require.NoError(t, err)
		done = d

		assert.LessOrEqual(t, step.Reward, 0.0)
		assert.GreaterOrEqual(t, step.Observation.AtVec(0), -math.Pi)
		assert.Less(t, step.Observation.AtVec(0), math.Pi)
		assert.LessOrEqual(t, math.Abs(step.Observation.AtVec(1)), SpeedBound)
	}
	assert.True(t, done)
}

func TestActionDims(t *testing.T) {
	s := environment.NewUniformStarter([]r1.Interval{{}, {}}, 3)
	p := New(s, nil, 0.99)
	_, err := p.Reset()
	require.NoError(t, err)

	_, _, err = p.Step(mat.NewVecDense(2, nil))
	assert.Error(t, err)
}

func TestNormalizeAngle(t *testing.T) {
	assert.InDelta(t, 0.0, normalizeAngle(2*math.Pi), 1e-12)
	assert.InDelta(t, -math.Pi/2, normalizeAngle(3*math.Pi/2), 1e-12)
	assert.InDelta(t, math.Pi/2, normalizeAngle(-3*math.Pi/2), 1e-12)
}
