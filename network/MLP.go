package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// NewMLP creates a fully connected feed forward network on g taking
// inputs of shape (batch, features) and predicting outputs values per
// sample.
//
// hiddenSizes, biases and activations describe the hidden layers, so
// len(biases) and len(activations) must be len(hiddenSizes) + 1. The last
// element of each describes the output layer.
func NewMLP(features, batch, outputs int, g *G.ExprGraph, hiddenSizes []int,
	biases []bool, init G.InitWFn, activations []*Activation) (*Sequential,
	error) {
	input := newInput(g, batch, []int{features})

	layers, err := mlpLayers(g, features, outputs, hiddenSizes, biases, init,
		activations, "fc")
	if err != nil {
		return nil, fmt.Errorf("newmlp: %v", err)
	}

	return newSequential(input, layers)
}

// NewMLPFromInput appends an MLP head to torso. The returned network
// shares the graph, input and weights of torso, and its prediction is
// the output of the head.
func NewMLPFromInput(torso *Sequential, outputs int, hiddenSizes []int,
	biases []bool, init G.InitWFn, activations []*Activation) (*Sequential,
	error) {
	prefix := fmt.Sprintf("head%dfc", torso.Layers())
	layers, err := mlpLayers(torso.Graph(), torso.Outputs(), outputs,
		hiddenSizes, biases, init, activations, prefix)
	if err != nil {
		return nil, fmt.Errorf("newmlpfrominput: %v", err)
	}

	return torso.Extend(layers...)
}

// NewLayerNormMLP creates an MLP whose first layer is followed by layer
// normalization and a tanh activation. Remaining layers use ELU
// activations, and the final layer is activated only if activateFinal is
// true.
func NewLayerNormMLP(features, batch int, g *G.ExprGraph, sizes []int,
	init G.InitWFn, activateFinal bool) (*Sequential, error) {
	input := newInput(g, batch, []int{features})

	layers, err := layerNormMLPLayers(g, features, sizes, init,
		activateFinal, "lnmlp")
	if err != nil {
		return nil, fmt.Errorf("newlayernormmlp: %v", err)
	}

	return newSequential(input, layers)
}

func mlpLayers(g *G.ExprGraph, features, outputs int, hiddenSizes []int,
	biases []bool, init G.InitWFn, activations []*Activation,
	prefix string) ([]Layer, error) {
	if len(hiddenSizes)+1 != len(activations) {
		return nil, fmt.Errorf("invalid number of activations \n\twant(%v)"+
			"\n\thave(%v)", len(hiddenSizes)+1, len(activations))
	}
	if len(hiddenSizes)+1 != len(biases) {
		return nil, fmt.Errorf("invalid number of biases \n\twant(%v)"+
			"\n\thave(%v)", len(hiddenSizes)+1, len(biases))
	}
	if outputs < 1 {
		return nil, fmt.Errorf("number of outputs must be positive "+
			"\n\thave(%v)", outputs)
	}

	sizes := append(append([]int{}, hiddenSizes...), outputs)
	layers := make([]Layer, 0, len(sizes))
	in := features
	for i, out := range sizes {
		name := fmt.Sprintf("%v%d", prefix, i)
		layers = append(layers, newFCLayer(g, in, out, biases[i], init,
			activations[i], name))
		in = out
	}

	return layers, nil
}

func layerNormMLPLayers(g *G.ExprGraph, features int, sizes []int,
	init G.InitWFn, activateFinal bool, prefix string) ([]Layer, error) {
	if len(sizes) == 0 {
		return nil, fmt.Errorf("layer norm MLP needs at least one layer")
	}

	layers := []Layer{
		newFCLayer(g, features, sizes[0], true, init, nil, prefix+"0"),
		newLayerNorm(g, sizes[0], prefix+"Norm"),
		&activationLayer{act: TanH()},
	}

	in := sizes[0]
	for i := 1; i < len(sizes); i++ {
		act := ELU()
		if i == len(sizes)-1 && !activateFinal {
			act = nil
		}
		name := fmt.Sprintf("%v%d", prefix, i)
		layers = append(layers, newFCLayer(g, in, sizes[i], true, init, act,
			name))
		in = sizes[i]
	}

	return layers, nil
}
