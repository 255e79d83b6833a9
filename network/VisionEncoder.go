package network

import (
	"fmt"

	"github.com/samuelfneumann/daxqn/initwfn"
	G "gorgonia.org/gorgonia"
)

// Default VisionEncoder architecture
const (
	DefaultImageSize      = 84
	DefaultFilters        = 32
	DefaultKernel         = 3
	DefaultBottleneckSize = 50

	// Number of stride 1 convolutions after the first, strided one
	numStrideOneConvs = 3
)

// VisionEncoderConfig configures a VisionEncoder
type VisionEncoderConfig struct {
	Height, Width, Channels int

	Filters             int
	LayerSizeBottleneck int

	InitWFn *initwfn.InitWFn
}

// NewVisionEncoderConfig returns a config for 84x84 images with the
// given number of channels
func NewVisionEncoderConfig(channels, bottleneck int) VisionEncoderConfig {
	return VisionEncoderConfig{
		Height:              DefaultImageSize,
		Width:               DefaultImageSize,
		Channels:            channels,
		Filters:             DefaultFilters,
		LayerSizeBottleneck: bottleneck,
	}
}

// Validate checks a config for errors
func (c VisionEncoderConfig) Validate() error {
	if c.Height < 1 || c.Width < 1 || c.Channels < 1 {
		return fmt.Errorf("validate: image dimensions must be positive "+
			"\n\thave(%v x %v x %v)", c.Height, c.Width, c.Channels)
	}
	if c.Filters < 1 {
		return fmt.Errorf("validate: number of filters must be positive "+
			"\n\thave(%v)", c.Filters)
	}
	if c.LayerSizeBottleneck < 1 {
		return fmt.Errorf("validate: bottleneck size must be positive "+
			"\n\thave(%v)", c.LayerSizeBottleneck)
	}
	return nil
}

// NewVisionEncoder returns a convolutional encoder for batches of
// (height, width, channels) images with raw pixel values in [0, 255]:
//
//	x / 255 - 0.5
//	Conv2D(filters, 3x3, stride 2) -> ReLU
//	Conv2D(filters, 3x3, stride 1) -> ReLU, 3 times
//	Flatten
//	Linear(bottleneck) -> LayerNorm -> tanh
//
// Convolutions are SAME padded. Input samples are row major in HWC
// order, as produced by wrappers.Pixels.
func NewVisionEncoder(g *G.ExprGraph, batch int,
	c VisionEncoderConfig) (*Sequential, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newvisionencoder: %v", err)
	}
	if batch < 1 {
		return nil, fmt.Errorf("newvisionencoder: batch size must be "+
			"positive \n\thave(%v)", batch)
	}

	var init G.InitWFn
	if c.InitWFn != nil {
		init = c.InitWFn.InitWFn()
	} else {
		init = G.GlorotU(1.0)
	}

	input := newInput(g, batch, []int{c.Height, c.Width, c.Channels})
	layers := []Layer{
		affine{scale: 1.0 / 255.0, shift: -0.5},
		toChannelsFirst{},
	}

	conv, err := newConv2DLayer(g, c.Channels, c.Filters, DefaultKernel, 2,
		init, ReLU(), "conv0")
	if err != nil {
		return nil, fmt.Errorf("newvisionencoder: %v", err)
	}
	layers = append(layers, conv)
	height := convOutputSize(c.Height, DefaultKernel, 2)
	width := convOutputSize(c.Width, DefaultKernel, 2)

	for i := 1; i <= numStrideOneConvs; i++ {
		conv, err := newConv2DLayer(g, c.Filters, c.Filters, DefaultKernel,
			1, init, ReLU(), fmt.Sprintf("conv%d", i))
		if err != nil {
			return nil, fmt.Errorf("newvisionencoder: %v", err)
		}
		layers = append(layers, conv)
	}
	layers = append(layers, flatten{})

	features := c.Filters * height * width
	mlp, err := layerNormMLPLayers(g, features, []int{c.LayerSizeBottleneck},
		init, true, "bottleneck")
	if err != nil {
		return nil, fmt.Errorf("newvisionencoder: %v", err)
	}
	layers = append(layers, mlp...)

	return newSequential(input, layers)
}
