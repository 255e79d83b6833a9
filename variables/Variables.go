// Package variables implements the transfer of network weights from a
// learner to the copy of the network that an actor runs.
package variables

import (
	"fmt"
	"sync"

	"github.com/samuelfneumann/daxqn/network"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Source provides the current values of a set of variables
type Source interface {
	// Variables returns copies of the variables, in a fixed order
	Variables() ([]*tensor.Dense, error)
}

// NetworkSource is a Source providing the learnables of a network. If
// the network is trained concurrently with Variables being called, the
// locker used by the trainer must be given so that the weights are not
// read mid-update.
type NetworkSource struct {
	net network.NeuralNet
	mu  sync.Locker
}

// NewNetworkSource returns a Source of the learnables of net. mu may be
// nil.
func NewNetworkSource(net network.NeuralNet, mu sync.Locker) *NetworkSource {
	return &NetworkSource{net: net, mu: mu}
}

// Variables returns copies of the values of the learnables of the
// network
func (n *NetworkSource) Variables() ([]*tensor.Dense, error) {
	if n.mu != nil {
		n.mu.Lock()
		defer n.mu.Unlock()
	}
	return Copy(n.net.Learnables())
}

// Copy returns copies of the values of nodes
func Copy(nodes G.Nodes) ([]*tensor.Dense, error) {
	vars := make([]*tensor.Dense, len(nodes))
	for i, node := range nodes {
		value, ok := node.Value().(*tensor.Dense)
		if !ok {
			return nil, fmt.Errorf("copy: node %v does not hold a dense "+
				"tensor", node.Name())
		}
		vars[i] = value.Clone().(*tensor.Dense)
	}
	return vars, nil
}

// Assign sets the learnables of net to vars
func Assign(net network.NeuralNet, vars []*tensor.Dense) error {
	learnables := net.Learnables()
	if len(learnables) != len(vars) {
		return fmt.Errorf("assign: invalid number of variables \n\twant(%v)"+
			"\n\thave(%v)", len(learnables), len(vars))
	}

	for i, node := range learnables {
		if !node.Shape().Eq(vars[i].Shape()) {
			return fmt.Errorf("assign: invalid shape for variable %v "+
				"\n\twant(%v)\n\thave(%v)", i, node.Shape(), vars[i].Shape())
		}
		if err := G.Let(node, vars[i]); err != nil {
			return fmt.Errorf("assign: could not set variable %v: %v", i, err)
		}
	}
	return nil
}
