package network

import (
	G "gorgonia.org/gorgonia"
)

// Layer is a single layer of a Sequential network
type Layer interface {
	// fwd adds the forward pass of the layer to the graph of x
	fwd(x *G.Node) (*G.Node, error)

	// CloneTo clones a layer, including its weights, to a new graph
	CloneTo(g *G.ExprGraph) Layer

	// Learnables returns the learnable nodes of the layer
	Learnables() G.Nodes
}

// activationLayer applies an activation to its input
type activationLayer struct {
	act *Activation
}

func (a *activationLayer) fwd(x *G.Node) (*G.Node, error) {
	return a.act.fwd(x)
}

func (a *activationLayer) CloneTo(g *G.ExprGraph) Layer {
	return &activationLayer{act: a.act}
}

func (a *activationLayer) Learnables() G.Nodes {
	return nil
}
