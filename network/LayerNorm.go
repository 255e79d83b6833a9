package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// DefaultLayerNormEps is added to the variance for numerical stability
const DefaultLayerNormEps = 1e-5

// layerNorm normalizes each sample of a (batch, features) input to have
// zero mean and unit variance over its features, followed by a learned
// elementwise scale and offset.
type layerNorm struct {
	scale  *G.Node
	offset *G.Node
	eps    float64
}

func newLayerNorm(g *G.ExprGraph, features int, name string) *layerNorm {
	scale := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(1, features),
		G.WithName(name+"Scale"),
		G.WithInit(G.Ones()),
	)
	offset := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(1, features),
		G.WithName(name+"Offset"),
		G.WithInit(G.Zeroes()),
	)
	return &layerNorm{scale: scale, offset: offset, eps: DefaultLayerNormEps}
}

func (l *layerNorm) fwd(x *G.Node) (*G.Node, error) {
	if !x.IsMatrix() {
		return nil, fmt.Errorf("fwd: layer norm input must be a matrix")
	}
	batch := x.Shape()[0]

	mean := G.Must(G.Mean(x, 1))
	mean = G.Must(G.Reshape(mean, tensor.Shape{batch, 1}))
	centred := G.Must(G.BroadcastSub(x, mean, nil, []byte{1}))

	variance := G.Must(G.Mean(G.Must(G.Square(centred)), 1))
	variance = G.Must(G.Reshape(variance, tensor.Shape{batch, 1}))

	eps := G.NewScalar(x.Graph(), tensor.Float64, G.WithValue(l.eps),
		G.WithName("layer_norm_eps"))
	std := G.Must(G.Sqrt(G.Must(G.Add(variance, eps))))

	normed := G.Must(G.BroadcastHadamardDiv(centred, std, nil, []byte{1}))
	normed = G.Must(G.BroadcastHadamardProd(normed, l.scale, nil, []byte{0}))
	return G.BroadcastAdd(normed, l.offset, nil, []byte{0})
}

func (l *layerNorm) CloneTo(g *G.ExprGraph) Layer {
	return &layerNorm{
		scale:  l.scale.CloneTo(g),
		offset: l.offset.CloneTo(g),
		eps:    l.eps,
	}
}

func (l *layerNorm) Learnables() G.Nodes {
	return G.Nodes{l.scale, l.offset}
}
