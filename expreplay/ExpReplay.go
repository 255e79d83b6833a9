// Package expreplay implements an in-process experience replay buffer
// which stores transitions written by an adder and serves uniformly
// sampled batches to a learner.
package expreplay

import (
	"fmt"

	"github.com/samuelfneumann/daxqn/timestep"
)

// ExperienceReplayer implements an experience replay buffer
type ExperienceReplayer interface {
	// Add adds a transition to the buffer
	Add(t timestep.Transition) error

	// Sample samples a batch of experience from the buffer and returns
	// the states, actions, rewards, discounts, next states and next
	// actions of the batch, each flattened row major
	Sample() ([]float64, []float64, []float64, []float64, []float64,
		[]float64, error)

	// Capacity returns the current number of samples in the buffer
	Capacity() int

	// MaxCapacity returns the maximum allowable samples in the buffer
	MaxCapacity() int

	// MinCapacity returns the number of samples required to be in
	// the buffer before the buffer can be sampled
	MinCapacity() int

	// BatchSize returns the number of samples returned by Sample()
	BatchSize() int
}

// Config implements a specific configuration of an ExperienceReplayer
type Config struct {
	SampleMethod      SelectorType
	BatchSize         int
	MinReplayCapacity int
	MaxReplayCapacity int

	// IncludeNextAction stores the next action of each transition
	IncludeNextAction bool
}

// Validate checks a Config for errors
func (c Config) Validate() error {
	if c.BatchSize < 1 {
		return fmt.Errorf("validate: batch size must be positive "+
			"\n\thave(%v)", c.BatchSize)
	}
	if c.MinReplayCapacity < 1 {
		return fmt.Errorf("validate: minimum capacity must be positive "+
			"\n\thave(%v)", c.MinReplayCapacity)
	}
	if c.MaxReplayCapacity < c.MinReplayCapacity {
		return fmt.Errorf("validate: maximum capacity must not be less "+
			"than minimum capacity \n\twant(>=%v)\n\thave(%v)",
			c.MinReplayCapacity, c.MaxReplayCapacity)
	}
	if c.SampleMethod != Uniform {
		return fmt.Errorf("validate: unknown sample method %q",
			c.SampleMethod)
	}
	return nil
}

// Create creates and returns the ExperienceReplayer with the specified
// Config for transitions with the given state and action sizes.
func (c Config) Create(featureSize, actionSize int,
	seed uint64) (ExperienceReplayer, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}
	if featureSize < 1 || actionSize < 1 {
		return nil, fmt.Errorf("create: feature and action sizes must be "+
			"positive \n\thave(%v, %v)", featureSize, actionSize)
	}

	sampler := CreateSelector(c.SampleMethod, c.BatchSize, seed)
	return newFifoCache(sampler, c.MinReplayCapacity, c.MaxReplayCapacity,
		featureSize, actionSize, c.IncludeNextAction), nil
}
