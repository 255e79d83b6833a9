package agent

import (
	"testing"

	"github.com/samuelfneumann/daxqn/environment/wrappers"
	"github.com/samuelfneumann/daxqn/initwfn"
	"github.com/samuelfneumann/daxqn/solver"
	"github.com/samuelfneumann/daxqn/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() *Config {
	c := Default()
	c.HiddenSizes = []int{8}
	c.BatchSize = 4
	c.MinReplay = 4
	c.MaxReplay = 50
	c.EpisodeSteps = 10
	c.UpdatePeriod = 1
	return c
}

// runEpisode runs one episode with learning and returns its length
func runEpisode(t *testing.T, a *Agent) int {
	t.Helper()

	step, err := a.Env.Reset()
	require.NoError(t, err)
	require.NoError(t, a.Actor.ObserveFirst(step))

	length := 0
	for !step.Last() {
		action, err := a.Actor.SelectAction(step.Observation)
		require.NoError(t, err)

		step, _, err = a.Env.Step(action)
		require.NoError(t, err)
		require.NoError(t, a.Actor.Observe(action, step))

		_, err = a.Learner.Step()
		require.NoError(t, err)
		require.NoError(t, a.Actor.Update(false))
		length++
	}
	require.NoError(t, a.Actor.Update(true))
	return length
}

func TestCartpole(t *testing.T) {
	a, err := New(smallConfig())
	require.NoError(t, err)
	defer a.Close()

	assert.Greater(t, runEpisode(t, a), 0)
	assert.Greater(t, a.Replay.Capacity(), 0)
}

func TestPendulumDecoupled(t *testing.T) {
	c := smallConfig()
	c.Env = Pendulum
	c.Bins = 5

	a, err := New(c)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, 10, runEpisode(t, a))
	assert.Greater(t, a.Learner.GradientSteps(), 0)
}

func TestPixels(t *testing.T) {
	c := smallConfig()
	c.Pixels = true
	c.ImageSize = 12
	c.Bottleneck = 4
	c.EpisodeSteps = 3
	c.MinReplay = 2
	c.BatchSize = 2

	a, err := New(c)
	require.NoError(t, err)
	defer a.Close()

	_, ok := a.Env.(*wrappers.Pixels)
	require.True(t, ok)
	assert.Equal(t, 12*12*wrappers.Channels,
		a.Env.ObservationSpec().Shape.Len())

	step, err := a.Env.Reset()
	require.NoError(t, err)
	assert.Equal(t, timestep.First, step.StepType)

	action, err := a.Actor.SelectAction(step.Observation)
	require.NoError(t, err)
	assert.Equal(t, 1, action.Len())

	assert.Greater(t, runEpisode(t, a), 0)
}

func TestInitializerAndSolver(t *testing.T) {
	c := smallConfig()
	c.Solver = string(solver.Vanilla)
	c.GradientClip = 1
	init, err := initwfn.NewZeroes()
	require.NoError(t, err)
	c.InitWFn = init

	a, err := New(c)
	require.NoError(t, err)
	defer a.Close()

	for _, w := range a.Network.Learnables() {
		for _, v := range w.Value().Data().([]float64) {
			require.Equal(t, 0.0, v)
		}
	}
	assert.Greater(t, runEpisode(t, a), 0)
}

func TestValidate(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	c.Env = "acrobot"
	assert.Error(t, c.Validate())

	c = Default()
	c.Solver = "SGD"
	assert.Error(t, c.Validate())

	c = Default()
	c.InitWFn = nil
	assert.Error(t, c.Validate())

	c = Default()
	c.HiddenSizes = []int{0}
	assert.Error(t, c.Validate())

	_, err := New(c)
	assert.Error(t, err)
}
