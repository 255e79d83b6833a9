package learner

import (
	"testing"

	"github.com/samuelfneumann/daxqn/environment"
	"github.com/samuelfneumann/daxqn/expreplay"
	"github.com/samuelfneumann/daxqn/network"
	"github.com/samuelfneumann/daxqn/solver"
	"github.com/samuelfneumann/daxqn/timestep"
	"github.com/samuelfneumann/daxqn/variables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
)

func discreteSpec(actions int) environment.Spec {
	return environment.NewSpec(
		mat.NewVecDense(1, nil),
		environment.Action,
		mat.NewVecDense(1, []float64{0}),
		mat.NewVecDense(1, []float64{float64(actions - 1)}),
		environment.Discrete,
	)
}

func linearNet(t *testing.T, features, outputs int) network.NeuralNet {
	t.Helper()

	net, err := network.NewMLP(features, 1, outputs, G.NewGraph(), []int{},
		[]bool{false}, G.Zeroes(), []*network.Activation{network.Identity()})
	require.NoError(t, err)
	return net
}

func newReplay(t *testing.T, min, batch, actionSize int) expreplay.ExperienceReplayer {
	t.Helper()

	config := expreplay.Config{
		SampleMethod:      expreplay.Uniform,
		BatchSize:         batch,
		MinReplayCapacity: min,
		MaxReplayCapacity: 100,
	}
	replay, err := config.Create(1, actionSize, 1)
	require.NoError(t, err)
	return replay
}

func newConfig(t *testing.T) Config {
	t.Helper()

	s, err := solver.NewVanilla(0.1, 1, -1)
	require.NoError(t, err)
	return Config{Solver: s, Tau: 1.0, TargetUpdateInterval: 1, Bins: 3}
}

func TestDeepQLearnsReward(t *testing.T) {
	replay := newReplay(t, 2, 4, 1)
	net := linearNet(t, 1, 2)

	learner, err := NewDeepQ(net, discreteSpec(2), replay, newConfig(t))
	require.NoError(t, err)

	// Not enough samples yet
	stepped, err := learner.Step()
	require.NoError(t, err)
	assert.False(t, stepped)

	terminal := timestep.Transition{
		State:     mat.NewVecDense(1, []float64{1}),
		Action:    mat.NewVecDense(1, []float64{0}),
		Reward:    1,
		Discount:  0,
		NextState: mat.NewVecDense(1, []float64{1}),
	}
	require.NoError(t, replay.Add(terminal))
	require.NoError(t, replay.Add(terminal))

	for i := 0; i < 100; i++ {
		stepped, err := learner.Step()
		require.NoError(t, err)
		require.True(t, stepped)
	}
	assert.Equal(t, 100, learner.GradientSteps())
	assert.Less(t, learner.Loss(), 1e-6)

	vars, err := learner.Variables()
	require.NoError(t, err)
	require.Len(t, vars, 1)

	weights := vars[0].Data().([]float64)
	assert.InDelta(t, 1.0, weights[0], 1e-3)
	assert.InDelta(t, 0.0, weights[1], 1e-12)

	// The learned weights reach the actor's network through a client
	client, err := variables.NewClient(learner, net, 1)
	require.NoError(t, err)
	require.NoError(t, client.Update(true))
	assert.InDelta(t, 1.0,
		net.Learnables()[0].Value().Data().([]float64)[0], 1e-3)
}

func TestDeepQDecoupled(t *testing.T) {
	actionSpec := environment.NewSpec(
		mat.NewVecDense(2, nil),
		environment.Action,
		mat.NewVecDense(2, []float64{-1, -1}),
		mat.NewVecDense(2, []float64{1, 1}),
		environment.Continuous,
	)
	replay := newReplay(t, 1, 2, 2)
	net := linearNet(t, 1, 6)

	learner, err := NewDeepQ(net, actionSpec, replay, newConfig(t))
	require.NoError(t, err)

	encoded, err := learner.oneHot([]float64{1, -1, 0.1, -0.4})
	require.NoError(t, err)
	assert.Equal(t, []float64{
		0, 0, 1, 1, 0, 0,
		0, 1, 0, 0, 1, 0,
	}, encoded)

	targets := learner.updateTargets(
		[]float64{1, 0},
		[]float64{0.5, 1},
		[]float64{
			0, 2, 1, 4, 0, 0,
			1, 1, 1, -1, -3, -2,
		},
	)
	assert.InDeltaSlice(t, []float64{1 + 0.5*3, 0}, targets, 1e-12)

	require.NoError(t, replay.Add(timestep.Transition{
		State:     mat.NewVecDense(1, []float64{1}),
		Action:    mat.NewVecDense(2, []float64{1, -1}),
		Reward:    2,
		Discount:  0,
		NextState: mat.NewVecDense(1, []float64{0}),
	}))
	stepped, err := learner.Step()
	require.NoError(t, err)
	assert.True(t, stepped)
}

func TestDeepQOutputs(t *testing.T) {
	replay := newReplay(t, 1, 1, 1)
	_, err := NewDeepQ(linearNet(t, 1, 3), discreteSpec(2), replay,
		newConfig(t))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	config := newConfig(t)
	assert.NoError(t, config.Validate())

	config.Tau = 0
	assert.Error(t, config.Validate())

	config = newConfig(t)
	config.TargetUpdateInterval = 0
	assert.Error(t, config.Validate())

	config = newConfig(t)
	config.Solver = nil
	assert.Error(t, config.Validate())
}
