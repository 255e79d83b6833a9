package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"github.com/samuelfneumann/daxqn/utils/intutils"
	"gorgonia.org/tensor"
)

// conv2DLayer is a 2D convolution over (batch, channels, height, width)
// inputs with SAME padding for odd kernel sizes. When the padding of a
// dimension is uneven, the extra row or column is added at the end.
type conv2DLayer struct {
	filter *G.Node // (out, in, kernel, kernel)
	bias   *G.Node // (1, out, 1, 1)
	kernel int
	stride int
	act    *Activation
	name   string
}

func newConv2DLayer(g *G.ExprGraph, in, out, kernel, stride int,
	init G.InitWFn, act *Activation, name string) (*conv2DLayer, error) {
	if kernel%2 != 1 {
		return nil, fmt.Errorf("newconv2dlayer: kernel size must be odd "+
			"\n\thave(%v)", kernel)
	}
	if stride < 1 {
		return nil, fmt.Errorf("newconv2dlayer: stride must be positive "+
			"\n\thave(%v)", stride)
	}

	filter := G.NewTensor(
		g,
		tensor.Float64,
		4,
		G.WithShape(out, in, kernel, kernel),
		G.WithName(name+"Filter"),
		G.WithInit(init),
	)
	bias := G.NewTensor(
		g,
		tensor.Float64,
		4,
		G.WithShape(1, out, 1, 1),
		G.WithName(name+"B"),
		G.WithInit(G.Zeroes()),
	)

	return &conv2DLayer{
		filter: filter,
		bias:   bias,
		kernel: kernel,
		stride: stride,
		act:    act,
		name:   name,
	}, nil
}

// convOutputSize returns the spatial size of a SAME padded convolution
// output
func convOutputSize(in, kernel, stride int) int {
	return (in + stride - 1) / stride
}

// samePadding returns the number of zeroes to pad before and after a
// spatial dimension of size in for a SAME padded convolution
func samePadding(in, kernel, stride int) (before, after int) {
	out := convOutputSize(in, kernel, stride)
	total := intutils.Max((out-1)*stride+kernel-in, 0)
	return total / 2, total - total/2
}

// padEnd appends n zero slices to x along axis
func padEnd(x *G.Node, axis, n int, name string) (*G.Node, error) {
	if n == 0 {
		return x, nil
	}
	shape := x.Shape().Clone()
	shape[axis] = n
	zeroes := G.NewConstant(
		tensor.New(tensor.WithShape(shape...), tensor.Of(tensor.Float64)),
		G.WithName(name),
	)
	return G.Concat(axis, x, zeroes)
}

func (c *conv2DLayer) fwd(x *G.Node) (*G.Node, error) {
	if x.Dims() != 4 {
		return nil, fmt.Errorf("fwd: convolution input must have 4 "+
			"dimensions (batch, channels, height, width) \n\thave(%v)",
			x.Shape())
	}

	shape := x.Shape()
	top, bottom := samePadding(shape[2], c.kernel, c.stride)
	left, right := samePadding(shape[3], c.kernel, c.stride)

	// Conv2d pads both sides equally, so the remainder is added here
	x, err := padEnd(x, 2, bottom-top, c.name+"PadH")
	if err != nil {
		return nil, fmt.Errorf("fwd: could not pad input: %v", err)
	}
	x, err = padEnd(x, 3, right-left, c.name+"PadW")
	if err != nil {
		return nil, fmt.Errorf("fwd: could not pad input: %v", err)
	}

	x, err = G.Conv2d(
		x,
		c.filter,
		tensor.Shape{c.kernel, c.kernel},
		[]int{top, left},
		[]int{c.stride, c.stride},
		[]int{1, 1},
	)
	if err != nil {
		return nil, fmt.Errorf("fwd: could not compute convolution: %v", err)
	}

	x, err = G.BroadcastAdd(x, c.bias, nil, []byte{0, 2, 3})
	if err != nil {
		return nil, err
	}

	if c.act == nil {
		return x, nil
	}
	return c.act.fwd(x)
}

func (c *conv2DLayer) CloneTo(g *G.ExprGraph) Layer {
	return &conv2DLayer{
		filter: c.filter.CloneTo(g),
		bias:   c.bias.CloneTo(g),
		kernel: c.kernel,
		stride: c.stride,
		act:    c.act,
		name:   c.name,
	}
}

func (c *conv2DLayer) Learnables() G.Nodes {
	return G.Nodes{c.filter, c.bias}
}

// toChannelsFirst transposes (batch, height, width, channels) inputs to
// (batch, channels, height, width)
type toChannelsFirst struct{}

func (toChannelsFirst) fwd(x *G.Node) (*G.Node, error) {
	if x.Dims() != 4 {
		return nil, fmt.Errorf("fwd: expected 4 dimensional input "+
			"\n\thave(%v)", x.Shape())
	}
	return G.Transpose(x, 0, 3, 1, 2)
}

func (t toChannelsFirst) CloneTo(*G.ExprGraph) Layer { return t }

func (toChannelsFirst) Learnables() G.Nodes { return nil }

// flatten reshapes its input to (batch, features)
type flatten struct{}

func (flatten) fwd(x *G.Node) (*G.Node, error) {
	shape := x.Shape()
	features := 1
	for _, dim := range shape[1:] {
		features *= dim
	}
	return G.Reshape(x, tensor.Shape{shape[0], features})
}

func (f flatten) CloneTo(*G.ExprGraph) Layer { return f }

func (flatten) Learnables() G.Nodes { return nil }

// affine computes x * scale + shift with constant scalars. It is used to
// rescale raw pixel values.
type affine struct {
	scale, shift float64
}

func (a affine) fwd(x *G.Node) (*G.Node, error) {
	scale := G.NewScalar(x.Graph(), tensor.Float64, G.WithValue(a.scale),
		G.WithName("affine_scale"))
	shift := G.NewScalar(x.Graph(), tensor.Float64, G.WithValue(a.shift),
		G.WithName("affine_shift"))

	x, err := G.HadamardProd(x, scale)
	if err != nil {
		return nil, err
	}
	return G.Add(x, shift)
}

func (a affine) CloneTo(*G.ExprGraph) Layer { return a }

func (affine) Learnables() G.Nodes { return nil }
