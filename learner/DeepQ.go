// Package learner implements learners which train the weights that
// actors fetch through a variables.Client.
package learner

import (
	"fmt"
	"math"
	"sync"

	"github.com/samuelfneumann/daxqn/environment"
	"github.com/samuelfneumann/daxqn/expreplay"
	"github.com/samuelfneumann/daxqn/network"
	"github.com/samuelfneumann/daxqn/utils/floatutils"
	"github.com/samuelfneumann/daxqn/variables"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// DeepQ implements deep Q-learning with the MSE loss and a target
// network.
//
// Actions are described by D dimensions of B bins each and the network
// predicts D*B values, dimension major. Discrete actions are a single
// dimension whose bins are the actions, which gives DQN. For continuous
// actions each dimension is discretized and Q(s, a) is the mean over
// dimensions of the value of each dimension's bin, which gives the
// decoupled DecQN update
//
//	Q(s, a) <- r + γ * (1/D) Σ_d max_b Q_target(s', b)_d
//
// where γ is the n-step discount stored with the transition.
type DeepQ struct {
	mu sync.Mutex // Guards the weights of trainNet

	// Network whose weights are learned
	trainNet   network.NeuralNet
	trainNetVM G.VM
	solver     G.Solver

	// Network providing the update target
	targetNet   network.NeuralNet
	targetNetVM G.VM

	tau                  float64
	targetUpdateInterval int
	gradientSteps        int

	// Inputs to the graph of trainNet
	selectedActions *G.Node // (batch, dims * bins) one-hot per dimension
	targets         *G.Node // (batch)
	loss            G.Value

	dims, bins int
	low, width []float64 // Continuous action discretization
	discrete   bool

	replay    expreplay.ExperienceReplayer
	batchSize int
}

// NewDeepQ returns a new DeepQ learner for the Q-network net, which
// selects actions described by actionSpec. Batches are sampled from
// replay and net is cloned to learn with that batch size; net itself is
// not modified.
func NewDeepQ(net network.NeuralNet, actionSpec environment.Spec,
	replay expreplay.ExperienceReplayer, config Config) (*DeepQ, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("newdeepq: %v", err)
	}

	d := &DeepQ{
		solver:               config.Solver,
		tau:                  config.Tau,
		targetUpdateInterval: config.TargetUpdateInterval,
		replay:               replay,
		batchSize:            replay.BatchSize(),
	}

	switch actionSpec.Cardinality {
	case environment.Discrete:
		numActions, err := actionSpec.NumActions()
		if err != nil {
			return nil, fmt.Errorf("newdeepq: %v", err)
		}
		d.discrete = true
		d.dims, d.bins = 1, numActions

	case environment.Continuous:
		if config.Bins < 2 {
			return nil, fmt.Errorf("newdeepq: at least 2 bins are needed "+
				"for continuous actions \n\thave(%v)", config.Bins)
		}
		d.dims, d.bins = actionSpec.LowerBound.Len(), config.Bins
		d.low = make([]float64, d.dims)
		d.width = make([]float64, d.dims)
		for i := 0; i < d.dims; i++ {
			d.low[i] = actionSpec.LowerBound.AtVec(i)
			d.width[i] = (actionSpec.UpperBound.AtVec(i) - d.low[i]) /
				float64(d.bins-1)
		}

	default:
		return nil, fmt.Errorf("newdeepq: unknown action cardinality %v",
			actionSpec.Cardinality)
	}

	if net.Outputs() != d.dims*d.bins {
		return nil, fmt.Errorf("newdeepq: network must predict one value "+
			"per action bin \n\twant(%v)\n\thave(%v)", d.dims*d.bins,
			net.Outputs())
	}

	targetNet, err := net.CloneWithBatch(d.batchSize)
	if err != nil {
		return nil, fmt.Errorf("newdeepq: could not create target "+
			"network: %v", err)
	}
	d.targetNet = targetNet
	d.targetNetVM = G.NewTapeMachine(targetNet.Graph())

	trainNet, err := net.CloneWithBatch(d.batchSize)
	if err != nil {
		return nil, fmt.Errorf("newdeepq: could not create learning "+
			"network: %v", err)
	}
	d.trainNet = trainNet
	gTrain := trainNet.Graph()

	d.selectedActions = G.NewMatrix(
		gTrain,
		tensor.Float64,
		G.WithShape(d.batchSize, d.dims*d.bins),
		G.WithName("actionSelected"),
		G.WithInit(G.Zeroes()),
	)
	d.targets = G.NewVector(
		gTrain,
		tensor.Float64,
		G.WithShape(d.batchSize),
		G.WithName("updateTarget"),
		G.WithInit(G.Zeroes()),
	)

	// Q(s, a) as the mean value of the bins selected in each dimension
	selectedActionsValue := G.Must(G.HadamardProd(trainNet.Prediction(),
		d.selectedActions))
	selectedActionsValue = G.Must(G.Sum(selectedActionsValue, 1))
	if d.dims > 1 {
		scale := G.NewScalar(gTrain, tensor.Float64,
			G.WithValue(1.0/float64(d.dims)), G.WithName("dimScale"))
		selectedActionsValue = G.Must(G.HadamardProd(selectedActionsValue,
			scale))
	}

	// Compute the Mean Squarred TD error
	losses := G.Must(G.Sub(d.targets, selectedActionsValue))
	losses = G.Must(G.Square(losses))
	cost := G.Must(G.Mean(losses))
	G.Read(cost, &d.loss)

	if _, err := G.Grad(cost, trainNet.Learnables()...); err != nil {
		return nil, fmt.Errorf("newdeepq: could not compute gradient: %v",
			err)
	}

	d.trainNetVM = G.NewTapeMachine(
		gTrain,
		G.BindDualValues(trainNet.Learnables()...),
	)

	return d, nil
}

// Step performs one gradient step on a batch sampled from the replay
// buffer. If the buffer cannot be sampled yet, Step does nothing and
// returns false.
func (d *DeepQ) Step() (bool, error) {
	S, A, R, discount, NextS, _, err := d.replay.Sample()
	if expreplay.IsEmptyBuffer(err) || expreplay.IsInsufficientSamples(err) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("step: could not sample replay: %v", err)
	}

	selected, err := d.oneHot(A)
	if err != nil {
		return false, fmt.Errorf("step: %v", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// Predict the action values in the next state NextS
	if err := d.targetNet.SetInput(NextS); err != nil {
		return false, fmt.Errorf("step: could not set target net input: %v",
			err)
	}
	if err := d.targetNetVM.RunAll(); err != nil {
		return false, fmt.Errorf("step: could not run target net: %v", err)
	}
	nextValues := d.targetNet.Output().(*tensor.Dense).Data().([]float64)
	targets := d.updateTargets(R, discount, nextValues)
	d.targetNetVM.Reset()

	if err := G.Let(d.selectedActions, tensor.New(
		tensor.WithShape(d.batchSize, d.dims*d.bins),
		tensor.WithBacking(selected),
	)); err != nil {
		return false, fmt.Errorf("step: could not set actions: %v", err)
	}
	if err := G.Let(d.targets, tensor.New(
		tensor.WithShape(d.batchSize),
		tensor.WithBacking(targets),
	)); err != nil {
		return false, fmt.Errorf("step: could not set update target: %v",
			err)
	}
	if err := d.trainNet.SetInput(S); err != nil {
		return false, fmt.Errorf("step: could not set train net input: %v",
			err)
	}

	// Run the learning step
	if err := d.trainNetVM.RunAll(); err != nil {
		return false, fmt.Errorf("step: could not run train net: %v", err)
	}
	if err := d.solver.Step(d.trainNet.Model()); err != nil {
		return false, fmt.Errorf("step: could not step solver: %v", err)
	}
	d.trainNetVM.Reset()
	d.gradientSteps++

	if d.gradientSteps%d.targetUpdateInterval == 0 {
		if d.tau == 1.0 {
			err = d.targetNet.Set(d.trainNet)
		} else {
			err = d.targetNet.Polyak(d.trainNet, d.tau)
		}
		if err != nil {
			return true, fmt.Errorf("step: could not update target "+
				"network: %v", err)
		}
	}

	return true, nil
}

// oneHot encodes a batch of actions as one one-hot vector of bins per
// action dimension
func (d *DeepQ) oneHot(actions []float64) ([]float64, error) {
	if len(actions) != d.batchSize*d.dims {
		return nil, fmt.Errorf("onehot: invalid number of actions "+
			"\n\twant(%v)\n\thave(%v)", d.batchSize*d.dims, len(actions))
	}

	encoded := make([]float64, d.batchSize*d.dims*d.bins)
	for i, a := range actions {
		dim := i % d.dims
		bin := d.bin(dim, a)
		if bin < 0 || bin >= d.bins {
			return nil, fmt.Errorf("onehot: action %v out of range", a)
		}
		encoded[i*d.bins+bin] = 1.0
	}
	return encoded, nil
}

// bin returns the bin of action value a in dimension dim
func (d *DeepQ) bin(dim int, a float64) int {
	if d.discrete {
		return int(a)
	}
	bin := math.Round((a - d.low[dim]) / d.width[dim])
	return int(floatutils.Clip(bin, 0, float64(d.bins-1)))
}

// updateTargets computes r + γ * (1/D) Σ_d max_b Q(s', b)_d
func (d *DeepQ) updateTargets(rewards, discounts,
	nextValues []float64) []float64 {
	targets := make([]float64, d.batchSize)
	row := d.dims * d.bins
	for i := range targets {
		value := 0.0
		for dim := 0; dim < d.dims; dim++ {
			start := i*row + dim*d.bins
			max, _ := floatutils.MaxSlice(nextValues[start : start+d.bins])
			value += max
		}
		targets[i] = rewards[i] + discounts[i]*value/float64(d.dims)
	}
	return targets
}

// Variables returns copies of the learned weights
func (d *DeepQ) Variables() ([]*tensor.Dense, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return variables.Copy(d.trainNet.Learnables())
}

// Loss returns the loss of the last gradient step
func (d *DeepQ) Loss() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.loss == nil {
		return math.NaN()
	}
	return d.loss.Data().(float64)
}

// GradientSteps returns the number of gradient steps taken
func (d *DeepQ) GradientSteps() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gradientSteps
}
