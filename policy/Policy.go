// Package policy implements policy networks for the feed forward actor.
//
// A policy wraps a network.NeuralNet with a batch size of 1 and owns
// the VM which runs it. Forward takes a batch of observations of shape
// (1, features...) and returns either an action tensor with the batch
// as its leading dimension or a distribution.Distribution over actions.
package policy

import (
	"fmt"

	"github.com/samuelfneumann/daxqn/network"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Policy is a policy network
type Policy interface {
	Forward(obs *tensor.Dense) (interface{}, error)

	// Network returns the network whose weights determine the policy
	Network() network.NeuralNet
}

// runner runs the forward pass of a network on batches of observations
type runner struct {
	net network.NeuralNet
	vm  G.VM
}

func newRunner(net network.NeuralNet) runner {
	return runner{net: net, vm: G.NewTapeMachine(net.Graph())}
}

// Network returns the network which the policy runs
func (r *runner) Network() network.NeuralNet {
	return r.net
}

// run returns the output of the network on obs as a (batch, outputs)
// tensor
func (r *runner) run(obs *tensor.Dense) (*tensor.Dense, error) {
	shape := obs.Shape()
	if len(shape) == 0 || shape[0] != r.net.BatchSize() {
		return nil, fmt.Errorf("run: observation batch size must match "+
			"network batch size \n\twant(%v)\n\thave(%v)", r.net.BatchSize(),
			shape)
	}

	data, ok := obs.Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("run: observations must be float64 "+
			"\n\thave(%v)", obs.Dtype())
	}
	if err := r.net.SetInput(data); err != nil {
		return nil, fmt.Errorf("run: could not set network input: %v", err)
	}

	defer r.vm.Reset()
	if err := r.vm.RunAll(); err != nil {
		return nil, fmt.Errorf("run: could not run network: %v", err)
	}

	out, ok := r.net.Output().(*tensor.Dense)
	if !ok {
		return nil, fmt.Errorf("run: network output is not a dense tensor")
	}
	return out.Clone().(*tensor.Dense), nil
}

// rows returns the rows of a (batch, n) tensor
func rows(t *tensor.Dense) [][]float64 {
	shape := t.Shape()
	data := t.Data().([]float64)

	batch, n := shape[0], shape[1]
	out := make([][]float64, batch)
	for i := range out {
		out[i] = data[i*n : (i+1)*n]
	}
	return out
}
