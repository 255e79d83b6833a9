package network

import (
	"fmt"

	"github.com/samuelfneumann/daxqn/utils/intutils"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Sequential is a NeuralNet which applies a stack of Layers, in order,
// to a single input node. The input node has shape (batch, inputShape...).
type Sequential struct {
	g          *G.ExprGraph
	layers     []Layer
	input      *G.Node
	inputShape []int
	batchSize  int
	numOutputs int

	learnables G.Nodes
	model      []G.ValueGrad

	prediction *G.Node
	predVal    G.Value
}

// newInput adds an input node of shape (batch, inputShape...) to g
func newInput(g *G.ExprGraph, batch int, inputShape []int) *G.Node {
	shape := append([]int{batch}, inputShape...)

	if len(shape) == 2 {
		return G.NewMatrix(g, tensor.Float64, G.WithShape(shape...),
			G.WithName("input"), G.WithInit(G.Zeroes()))
	}
	return G.NewTensor(g, tensor.Float64, len(shape), G.WithShape(shape...),
		G.WithName("input"), G.WithInit(G.Zeroes()))
}

// newSequential creates a Sequential network on the graph of input and
// runs its forward pass.
func newSequential(input *G.Node, layers []Layer) (*Sequential, error) {
	shape := input.Shape()
	if len(shape) < 2 {
		return nil, fmt.Errorf("newsequential: input must have a batch " +
			"dimension")
	}

	net := &Sequential{
		g:          input.Graph(),
		layers:     layers,
		input:      input,
		inputShape: append([]int{}, shape[1:]...),
		batchSize:  shape[0],
	}

	pred, err := net.fwd(input)
	if err != nil {
		return nil, fmt.Errorf("newsequential: could not compute forward "+
			"pass: %v", err)
	}
	if !pred.IsMatrix() {
		return nil, fmt.Errorf("newsequential: network must predict a "+
			"(batch, outputs) matrix \n\thave(%v)", pred.Shape())
	}
	net.numOutputs = pred.Shape()[1]

	return net, nil
}

// fwd performs the forward pass of the network on the input node
func (s *Sequential) fwd(input *G.Node) (*G.Node, error) {
	pred := input
	var err error
	for i, l := range s.layers {
		if pred, err = l.fwd(pred); err != nil {
			msg := "fwd: could not compute forward pass of layer %v: %v"
			return nil, fmt.Errorf(msg, i, err)
		}
	}

	s.prediction = pred
	G.Read(s.prediction, &s.predVal)

	return pred, nil
}

// Graph returns the computational graph of the network
func (s *Sequential) Graph() *G.ExprGraph {
	return s.g
}

// Layers returns the number of layers in the network
func (s *Sequential) Layers() int {
	return len(s.layers)
}

// Clone clones the network
func (s *Sequential) Clone() (NeuralNet, error) {
	return s.CloneWithBatch(s.batchSize)
}

// CloneWithBatch clones the network with a new input batch size
func (s *Sequential) CloneWithBatch(batchSize int) (NeuralNet, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("clonewithbatch: batch size must be "+
			"positive \n\thave(%v)", batchSize)
	}

	graph := G.NewGraph()
	input := newInput(graph, batchSize, s.inputShape)

	layers := make([]Layer, len(s.layers))
	for i := range s.layers {
		layers[i] = s.layers[i].CloneTo(graph)
	}

	net, err := newSequential(input, layers)
	if err != nil {
		return nil, fmt.Errorf("clonewithbatch: could not clone: %v", err)
	}
	return net, nil
}

// Extend returns a new network whose layers are the layers of s
// followed by layers. The new network shares the graph, input and
// weights of s. The layers must already be on the graph of s.
func (s *Sequential) Extend(layers ...Layer) (*Sequential, error) {
	all := make([]Layer, 0, len(s.layers)+len(layers))
	all = append(all, s.layers...)
	all = append(all, layers...)

	net := &Sequential{
		g:          s.g,
		layers:     all,
		input:      s.input,
		inputShape: s.inputShape,
		batchSize:  s.batchSize,
	}

	// Only the new layers need to be added to the graph
	pred := s.prediction
	var err error
	for i, l := range layers {
		if pred, err = l.fwd(pred); err != nil {
			msg := "extend: could not compute forward pass of layer %v: %v"
			return nil, fmt.Errorf(msg, len(s.layers)+i, err)
		}
	}
	if !pred.IsMatrix() {
		return nil, fmt.Errorf("extend: network must predict a "+
			"(batch, outputs) matrix \n\thave(%v)", pred.Shape())
	}

	net.prediction = pred
	net.numOutputs = pred.Shape()[1]
	G.Read(net.prediction, &net.predVal)

	return net, nil
}

// BatchSize returns the batch size of inputs to the network
func (s *Sequential) BatchSize() int {
	return s.batchSize
}

// Features returns the number of values in a single input sample
func (s *Sequential) Features() int {
	return intutils.Prod(s.inputShape...)
}

// InputShape returns the shape of a single input sample
func (s *Sequential) InputShape() []int {
	return append([]int{}, s.inputShape...)
}

// Outputs returns the number of outputs per sample
func (s *Sequential) Outputs() int {
	return s.numOutputs
}

// SetInput sets the value of the input node before running the forward
// pass.
func (s *Sequential) SetInput(input []float64) error {
	if len(input) != s.Features()*s.batchSize {
		return fmt.Errorf("setinput: invalid number of inputs\n\twant(%v)"+
			"\n\thave(%v)", s.Features()*s.batchSize, len(input))
	}
	inputTensor := tensor.New(
		tensor.WithBacking(input),
		tensor.WithShape(s.input.Shape()...),
	)
	return G.Let(s.input, inputTensor)
}

// Set sets the weights of a network to be equal to the weights of
// another network
func (dest *Sequential) Set(source NeuralNet) error {
	sourceNodes := source.Learnables()
	nodes := dest.Learnables()
	if len(sourceNodes) != len(nodes) {
		return fmt.Errorf("set: networks have different numbers of "+
			"learnables \n\twant(%v)\n\thave(%v)", len(nodes),
			len(sourceNodes))
	}

	for i, destLearnable := range nodes {
		sourceLearnable := sourceNodes[i].Clone()
		err := G.Let(destLearnable, sourceLearnable.(*G.Node).Value())
		if err != nil {
			return fmt.Errorf("set: could not set learnable %v: %v", i, err)
		}
	}
	return nil
}

// Polyak sets the weights of a network to be a polyak average between
// its existing weights and the weights of another network
func (dest *Sequential) Polyak(source NeuralNet, tau float64) error {
	sourceNodes := source.Learnables()
	nodes := dest.Learnables()
	if len(sourceNodes) != len(nodes) {
		return fmt.Errorf("polyak: networks have different numbers of "+
			"learnables \n\twant(%v)\n\thave(%v)", len(nodes),
			len(sourceNodes))
	}

	for i := range nodes {
		weights := nodes[i].Value().(*tensor.Dense)
		sourceWeights := sourceNodes[i].Value().(*tensor.Dense)

		weights, err := weights.MulScalar(1-tau, true)
		if err != nil {
			return err
		}

		sourceWeights, err = sourceWeights.MulScalar(tau, true)
		if err != nil {
			return err
		}

		newWeights, err := weights.Add(sourceWeights)
		if err != nil {
			return err
		}

		if err := G.Let(nodes[i], newWeights); err != nil {
			return err
		}
	}
	return nil
}

// Learnables returns the learnable nodes in the network
func (s *Sequential) Learnables() G.Nodes {
	// Lazy instantiation
	if s.learnables == nil {
		learnables := make(G.Nodes, 0, 2*len(s.layers))
		for _, l := range s.layers {
			learnables = append(learnables, l.Learnables()...)
		}
		s.learnables = learnables
	}
	return s.learnables
}

// Model returns the learnables nodes with their gradients.
func (s *Sequential) Model() []G.ValueGrad {
	// Lazy instantiation
	if s.model == nil {
		model := make([]G.ValueGrad, 0, len(s.Learnables()))
		for _, node := range s.Learnables() {
			model = append(model, node)
		}
		s.model = model
	}
	return s.model
}

// Output returns the output of the network after the last run of a VM
// on its graph
func (s *Sequential) Output() G.Value {
	return s.predVal
}

// Prediction returns the node of the computational graph that stores
// the output of the network
func (s *Sequential) Prediction() *G.Node {
	return s.prediction
}
