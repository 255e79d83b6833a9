package cartpole

import (
	"testing"

	"github.com/fogleman/gg"
	env "github.com/samuelfneumann/daxqn/environment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func newCartpole(t *testing.T, limit int) *Cartpole {
	bounds := r1.Interval{Min: -0.05, Max: 0.05}
	s := env.NewUniformStarter([]r1.Interval{bounds, bounds, bounds, bounds},
		1)
	return New(s, env.NewStepLimit(limit), 0.99)
}

func TestStepBeforeReset(t *testing.T) {
	c := newCartpole(t, 10)
	_, _, err := c.Step(mat.NewVecDense(1, []float64{1}))
	assert.Error(t, err)
}

func TestIllegalAction(t *testing.T) {
	c := newCartpole(t, 10)
	_, err := c.Reset()
	require.NoError(t, err)

	_, _, err = c.Step(mat.NewVecDense(1, []float64{3}))
	assert.Error(t, err)
}

func TestEpisodeEnds(t *testing.T) {
	c := newCartpole(t, 500)
	step, err := c.Reset()
	require.NoError(t, err)
	assert.True(t, step.First())

	// Always pushing right tips the pole over well before 500 steps
	right := mat.NewVecDense(1, []float64{2})
	var done bool
	for i := 0; i < 500 && !done; i++ {
		step, done, err = c.Step(right)
		require.NoError(t, err)
		assert.Equal(t, 1.0, step.Reward)
	}
	assert.True(t, done)
	assert.True(t, step.Last())
	assert.Equal(t, 0.0, step.Discount)
	assert.Less(t, step.Number, 500)

	_, _, err = c.Step(right)
	assert.Error(t, err)
}

func TestTruncation(t *testing.T) {
	c := newCartpole(t, 3)
	_, err := c.Reset()
	require.NoError(t, err)

	noop := mat.NewVecDense(1, []float64{1})
	var done bool
	for i := 0; i < 3; i++ {
		_, done, err = c.Step(noop)
		require.NoError(t, err)
	}
	assert.True(t, done)
}

func TestRender(t *testing.T) {
	c := newCartpole(t, 3)
	_, err := c.Reset()
	require.NoError(t, err)

	dc := gg.NewContext(16, 16)
	c.Render(dc)
	assert.Equal(t, 16, dc.Image().Bounds().Dx())
}
