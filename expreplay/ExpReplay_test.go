package expreplay

import (
	"testing"

	"github.com/samuelfneumann/daxqn/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func transition(i float64) timestep.Transition {
	return timestep.Transition{
		State:      mat.NewVecDense(2, []float64{i, -i}),
		Action:     mat.NewVecDense(1, []float64{i}),
		Reward:     i,
		Discount:   0.9,
		NextState:  mat.NewVecDense(2, []float64{i + 1, -i - 1}),
		NextAction: mat.NewVecDense(1, []float64{i + 1}),
	}
}

func newBuffer(t *testing.T, min, max, batch int) ExperienceReplayer {
	t.Helper()

	config := Config{
		SampleMethod:      Uniform,
		BatchSize:         batch,
		MinReplayCapacity: min,
		MaxReplayCapacity: max,
		IncludeNextAction: true,
	}
	buffer, err := config.Create(2, 1, 1)
	require.NoError(t, err)
	return buffer
}

func TestSampleErrors(t *testing.T) {
	buffer := newBuffer(t, 2, 5, 3)

	_, _, _, _, _, _, err := buffer.Sample()
	assert.True(t, IsEmptyBuffer(err))
	assert.False(t, IsInsufficientSamples(err))

	require.NoError(t, buffer.Add(transition(1)))
	_, _, _, _, _, _, err = buffer.Sample()
	assert.True(t, IsInsufficientSamples(err))

	var replayErr *ExpReplayError
	require.ErrorAs(t, err, &replayErr)
	assert.Equal(t, "sample", replayErr.Op)
}

func TestSample(t *testing.T) {
	buffer := newBuffer(t, 1, 5, 4)
	require.NoError(t, buffer.Add(transition(3)))

	s, a, r, d, next, nextA, err := buffer.Sample()
	require.NoError(t, err)

	assert.Equal(t, []float64{3, -3, 3, -3, 3, -3, 3, -3}, s)
	assert.Equal(t, []float64{3, 3, 3, 3}, a)
	assert.Equal(t, []float64{3, 3, 3, 3}, r)
	assert.Equal(t, []float64{0.9, 0.9, 0.9, 0.9}, d)
	assert.Equal(t, []float64{4, -4, 4, -4, 4, -4, 4, -4}, next)
	assert.Equal(t, []float64{4, 4, 4, 4}, nextA)
}

func TestFifoOverwrite(t *testing.T) {
	buffer := newBuffer(t, 1, 3, 50)
	for i := 0; i < 5; i++ {
		require.NoError(t, buffer.Add(transition(float64(i))))
	}
	assert.Equal(t, 3, buffer.Capacity())

	// Transitions 0 and 1 were overwritten
	_, _, r, _, _, _, err := buffer.Sample()
	require.NoError(t, err)
	for _, reward := range r {
		assert.Contains(t, []float64{2, 3, 4}, reward)
	}
}

func TestAddInvalid(t *testing.T) {
	buffer := newBuffer(t, 1, 3, 1)

	bad := transition(1)
	bad.State = mat.NewVecDense(3, nil)
	assert.Error(t, buffer.Add(bad))

	bad = transition(1)
	bad.NextAction = nil
	assert.Error(t, buffer.Add(bad))

	assert.Equal(t, 0, buffer.Capacity())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"batch", Config{Uniform, 0, 1, 1, false}},
		{"min", Config{Uniform, 1, 0, 1, false}},
		{"max", Config{Uniform, 1, 5, 4, false}},
		{"method", Config{"Prioritized", 1, 1, 1, false}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Error(t, test.config.Validate())
		})
	}
}
