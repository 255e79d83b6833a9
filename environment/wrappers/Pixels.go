// Package wrappers implements environment wrappers that change the
// observations an environment emits
package wrappers

import (
	"fmt"

	"github.com/fogleman/gg"
	env "github.com/samuelfneumann/daxqn/environment"
	ts "github.com/samuelfneumann/daxqn/timestep"
	"gonum.org/v1/gonum/mat"
)

// Channels is the number of colour channels in a Pixels observation
const Channels = 3

// Pixels replaces the observations of an environment with an RGB
// rendering of the environment. Observations are flattened in
// (height, width, channel) order with values in [0, 255].
type Pixels struct {
	env.Renderer

	height, width int
	dc            *gg.Context
}

// NewPixels returns a new Pixels environment wrapper which renders
// observations of height x width pixels
func NewPixels(e env.Renderer, height, width int) (*Pixels, error) {
	if height < 1 || width < 1 {
		return nil, fmt.Errorf("newpixels: image dimensions must be positive"+
			"\n\thave(%v, %v)", height, width)
	}
	return &Pixels{
		Renderer: e,
		height:   height,
		width:    width,
		dc:       gg.NewContext(width, height),
	}, nil
}

// Reset resets the environment to some starting state
func (p *Pixels) Reset() (ts.TimeStep, error) {
	step, err := p.Renderer.Reset()
	if err != nil {
		return ts.TimeStep{}, err
	}

	step.Observation = p.getObs()
	return step, nil
}

// Step takes one environmental step given some action
func (p *Pixels) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	step, last, err := p.Renderer.Step(action)
	if err != nil {
		return ts.TimeStep{}, true, err
	}

	step.Observation = p.getObs()
	return step, last, nil
}

// ObservationSpec returns the observation specification of the
// environment
func (p *Pixels) ObservationSpec() env.Spec {
	size := p.height * p.width * Channels

	upper := make([]float64, size)
	for i := range upper {
		upper[i] = 255
	}

	return env.NewSpec(mat.NewVecDense(size, nil), env.Observation,
		mat.NewVecDense(size, nil), mat.NewVecDense(size, upper),
		env.Continuous)
}

// Shape returns the (height, width, channels) shape of observations
func (p *Pixels) Shape() (int, int, int) {
	return p.height, p.width, Channels
}

// getObs renders the wrapped environment and flattens the image
func (p *Pixels) getObs() *mat.VecDense {
	p.Render(p.dc)
	img := p.dc.Image()
	bounds := img.Bounds()

	obs := make([]float64, 0, p.height*p.width*Channels)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			obs = append(obs, float64(r>>8), float64(g>>8), float64(b>>8))
		}
	}
	return mat.NewVecDense(len(obs), obs)
}
