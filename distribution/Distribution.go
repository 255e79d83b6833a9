// Package distribution implements batches of action distributions
// that a policy network may return instead of actions.
package distribution

import (
	"fmt"

	"github.com/samuelfneumann/daxqn/utils/floatutils"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"
)

// Distribution is a batch of distributions over actions
type Distribution interface {
	// Sample draws one action per distribution in the batch. The
	// returned tensor has the batch size as its leading dimension.
	Sample() (*tensor.Dense, error)

	// BatchSize returns the number of distributions in the batch
	BatchSize() int
}

// Categorical is a batch of categorical distributions over action
// indices 0, 1, ..., N-1
type Categorical struct {
	probs [][]float64
	dists []distuv.Categorical
}

// NewCategorical returns a batch of categorical distributions with
// probabilities softmax(logits). logits must have shape (batch, N).
func NewCategorical(logits *tensor.Dense, src rand.Source) (*Categorical,
	error) {
	shape := logits.Shape()
	if len(shape) != 2 {
		return nil, fmt.Errorf("newcategorical: logits must have shape "+
			"(batch, actions) \n\thave(%v)", shape)
	}
	data, ok := logits.Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("newcategorical: logits must be float64 "+
			"\n\thave(%v)", logits.Dtype())
	}

	batch, actions := shape[0], shape[1]
	probs := make([][]float64, batch)
	dists := make([]distuv.Categorical, batch)
	for i := 0; i < batch; i++ {
		probs[i] = floatutils.Softmax(data[i*actions : (i+1)*actions])
		dists[i] = distuv.NewCategorical(probs[i], src)
	}

	return &Categorical{probs: probs, dists: dists}, nil
}

// Sample returns a (batch) tensor of sampled action indices
func (c *Categorical) Sample() (*tensor.Dense, error) {
	samples := make([]float64, len(c.dists))
	for i := range c.dists {
		samples[i] = c.dists[i].Rand()
	}
	return tensor.New(tensor.WithShape(len(samples)),
		tensor.WithBacking(samples)), nil
}

// Prob returns the probability of action a under distribution i
func (c *Categorical) Prob(i, a int) float64 {
	return c.probs[i][a]
}

// BatchSize returns the number of distributions in the batch
func (c *Categorical) BatchSize() int {
	return len(c.dists)
}

// Normal is a batch of multivariate Gaussians with diagonal covariance
type Normal struct {
	dims  int
	dists []*distmv.Normal
}

// NewNormal returns a batch of Gaussians with the given means, of shape
// (batch, dims), and a shared standard deviation in each dimension
func NewNormal(means *tensor.Dense, stddev float64,
	src rand.Source) (*Normal, error) {
	shape := means.Shape()
	if len(shape) != 2 {
		return nil, fmt.Errorf("newnormal: means must have shape "+
			"(batch, dims) \n\thave(%v)", shape)
	}
	if stddev <= 0 {
		return nil, fmt.Errorf("newnormal: standard deviation must be "+
			"positive \n\thave(%v)", stddev)
	}
	data, ok := means.Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("newnormal: means must be float64 "+
			"\n\thave(%v)", means.Dtype())
	}

	batch, dims := shape[0], shape[1]
	variances := make([]float64, dims)
	for i := range variances {
		variances[i] = stddev * stddev
	}
	cov := mat.NewDiagDense(dims, variances)

	dists := make([]*distmv.Normal, batch)
	for i := 0; i < batch; i++ {
		mean := append([]float64{}, data[i*dims:(i+1)*dims]...)
		dist, ok := distmv.NewNormal(mean, cov, src)
		if !ok {
			return nil, fmt.Errorf("newnormal: covariance is not positive " +
				"definite")
		}
		dists[i] = dist
	}

	return &Normal{dims: dims, dists: dists}, nil
}

// Sample returns a (batch, dims) tensor of samples
func (n *Normal) Sample() (*tensor.Dense, error) {
	samples := make([]float64, 0, len(n.dists)*n.dims)
	for _, dist := range n.dists {
		samples = append(samples, dist.Rand(nil)...)
	}
	return tensor.New(tensor.WithShape(len(n.dists), n.dims),
		tensor.WithBacking(samples)), nil
}

// Mean returns the mean of distribution i
func (n *Normal) Mean(i int) []float64 {
	return n.dists[i].Mean(nil)
}

// BatchSize returns the number of distributions in the batch
func (n *Normal) BatchSize() int {
	return len(n.dists)
}
