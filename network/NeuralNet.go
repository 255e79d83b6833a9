// Package network implements neural networks as stacks of layers on
// Gorgonia computational graphs.
//
// A NeuralNet populates a G.ExprGraph but does not own a VM. An
// external VM is used to run the graph:
//
//	Set up VM with net's graph:	vm = G.NewTapeMachine(net.Graph())
//	Set the input:			net.SetInput(obs)
//	Run the forward pass:		vm.RunAll()
//	Read the prediction:		out = net.Output()
//	Reset the VM:			vm.Reset()
package network

import (
	G "gorgonia.org/gorgonia"
)

// NeuralNet is a neural network function approximator on a Gorgonia
// computational graph
type NeuralNet interface {
	Graph() *G.ExprGraph

	// Clone clones the network, including its weights, onto a new graph
	Clone() (NeuralNet, error)
	CloneWithBatch(int) (NeuralNet, error)

	BatchSize() int

	// Features returns the number of values in a single (flattened)
	// input sample
	Features() int

	// InputShape returns the shape of a single input sample
	InputShape() []int

	// Outputs returns the number of values predicted per sample
	Outputs() int

	// SetInput sets the input of the network to a row major batch of
	// BatchSize() * Features() values
	SetInput([]float64) error

	// Set sets the weights of the network to those of another network
	// with the same architecture
	Set(NeuralNet) error

	// Polyak sets the weights of the network to the polyak average
	// (1 - tau) * current + tau * source
	Polyak(NeuralNet, float64) error

	Learnables() G.Nodes
	Model() []G.ValueGrad

	// Output returns the value of the prediction node after the last
	// run of a VM on the graph
	Output() G.Value
	Prediction() *G.Node
}
