package agent

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/daxqn/actor"
	"github.com/samuelfneumann/daxqn/adder"
	"github.com/samuelfneumann/daxqn/environment"
	"github.com/samuelfneumann/daxqn/environment/classiccontrol/cartpole"
	"github.com/samuelfneumann/daxqn/environment/classiccontrol/pendulum"
	"github.com/samuelfneumann/daxqn/environment/wrappers"
	"github.com/samuelfneumann/daxqn/expreplay"
	"github.com/samuelfneumann/daxqn/learner"
	"github.com/samuelfneumann/daxqn/network"
	"github.com/samuelfneumann/daxqn/policy"
	"github.com/samuelfneumann/daxqn/solver"
	"github.com/samuelfneumann/daxqn/variables"
	"gonum.org/v1/gonum/spatial/r1"
	G "gorgonia.org/gorgonia"
)

// Agent holds the components of a training agent. The Actor runs a
// batch 1 copy of the Q-network which the Client keeps in sync with the
// Learner.
type Agent struct {
	Env     environment.Environment
	Network network.NeuralNet
	Actor   *actor.FeedForward
	Learner *learner.DeepQ
	Client  *variables.Client
	Replay  expreplay.ExperienceReplayer
}

// New creates an agent as described by c
func New(c *Config) (*Agent, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	env, err := newEnvironment(c)
	if err != nil {
		return nil, fmt.Errorf("new: could not create environment: %v", err)
	}
	actionSpec := env.ActionSpec()

	// Number of Q-network outputs
	var outputs int
	if actionSpec.Cardinality == environment.Discrete {
		if outputs, err = actionSpec.NumActions(); err != nil {
			return nil, fmt.Errorf("new: %v", err)
		}
	} else {
		outputs = actionSpec.LowerBound.Len() * c.Bins
	}

	net, err := newQNetwork(c, env, outputs)
	if err != nil {
		return nil, fmt.Errorf("new: could not create network: %v", err)
	}

	var p actor.PolicyNetwork
	if actionSpec.Cardinality == environment.Discrete {
		p, err = policy.NewEGreedy(net, c.Epsilon, c.Seed)
	} else {
		p, err = policy.NewDecoupled(net, actionSpec, c.Bins, c.Epsilon,
			c.Seed)
	}
	if err != nil {
		return nil, fmt.Errorf("new: could not create policy: %v", err)
	}

	replayConfig := expreplay.Config{
		SampleMethod:      expreplay.Uniform,
		BatchSize:         c.BatchSize,
		MinReplayCapacity: c.MinReplay,
		MaxReplayCapacity: c.MaxReplay,
	}
	replay, err := replayConfig.Create(env.ObservationSpec().Shape.Len(),
		actionSpec.LowerBound.Len(), c.Seed)
	if err != nil {
		return nil, fmt.Errorf("new: could not create replay buffer: %v",
			err)
	}

	nStep, err := adder.NewNStepTransition(replay, c.NStep)
	if err != nil {
		return nil, fmt.Errorf("new: could not create adder: %v", err)
	}

	s, err := solver.New(solver.Type(c.Solver), c.LearningRate, c.BatchSize,
		c.GradientClip)
	if err != nil {
		return nil, fmt.Errorf("new: could not create solver: %v", err)
	}
	deepQ, err := learner.NewDeepQ(net, actionSpec, replay, learner.Config{
		Solver:               s,
		Tau:                  c.Tau,
		TargetUpdateInterval: c.TargetUpdateInterval,
		Bins:                 c.Bins,
	})
	if err != nil {
		return nil, fmt.Errorf("new: could not create learner: %v", err)
	}

	client, err := variables.NewClient(deepQ, net, c.UpdatePeriod)
	if err != nil {
		return nil, fmt.Errorf("new: could not create variable client: %v",
			err)
	}

	a, err := actor.NewFeedForward(p, nStep, client)
	if err != nil {
		return nil, fmt.Errorf("new: could not create actor: %v", err)
	}

	return &Agent{
		Env:     env,
		Network: net,
		Actor:   a,
		Learner: deepQ,
		Client:  client,
		Replay:  replay,
	}, nil
}

// Close waits for any variable fetch in flight
func (a *Agent) Close() {
	a.Client.Close()
}

func newEnvironment(c *Config) (environment.Environment, error) {
	ender := environment.NewStepLimit(c.EpisodeSteps)

	var env environment.Renderer
	switch c.Env {
	case Cartpole:
		bounds := make([]r1.Interval, cartpole.ObservationDims)
		for i := range bounds {
			bounds[i] = r1.Interval{Min: -0.05, Max: 0.05}
		}
		starter := environment.NewUniformStarter(bounds, c.Seed)
		env = cartpole.New(starter, ender, c.Discount)

	case Pendulum:
		starter := environment.NewUniformStarter([]r1.Interval{
			{Min: -math.Pi, Max: math.Pi},
			{Min: -1, Max: 1},
		}, c.Seed)
		env = pendulum.New(starter, ender, c.Discount)

	default:
		return nil, fmt.Errorf("newenvironment: unknown environment %q",
			c.Env)
	}

	if !c.Pixels {
		return env, nil
	}
	pixels, err := wrappers.NewPixels(env, c.ImageSize, c.ImageSize)
	if err != nil {
		return nil, err
	}
	return pixels, nil
}

// newQNetwork creates a batch 1 Q-network for env: an MLP on state
// observations or a vision encoder with an MLP head on pixels
func newQNetwork(c *Config, env environment.Environment,
	outputs int) (network.NeuralNet, error) {
	hidden := c.HiddenSizes
	biases := make([]bool, len(hidden)+1)
	activations := make([]*network.Activation, len(hidden)+1)
	for i := range activations {
		biases[i] = true
		activations[i] = network.ReLU()
	}
	activations[len(hidden)] = network.Identity()

	init := c.InitWFn.InitWFn()
	g := G.NewGraph()

	if !c.Pixels {
		features := env.ObservationSpec().Shape.Len()
		return network.NewMLP(features, 1, outputs, g, hidden, biases,
			init, activations)
	}

	pixels, ok := env.(*wrappers.Pixels)
	if !ok {
		return nil, fmt.Errorf("newqnetwork: expected pixel observations")
	}
	height, width, channels := pixels.Shape()

	encoderConfig := network.NewVisionEncoderConfig(channels, c.Bottleneck)
	encoderConfig.Height, encoderConfig.Width = height, width
	encoderConfig.InitWFn = c.InitWFn
	encoder, err := network.NewVisionEncoder(g, 1, encoderConfig)
	if err != nil {
		return nil, err
	}
	return network.NewMLPFromInput(encoder, outputs, hidden, biases, init,
		activations)
}
