package expreplay

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// SelectorType names a method of sampling from a replay buffer
type SelectorType string

const (
	Uniform SelectorType = "Uniform"
)

// Selector chooses the buffer positions at which a batch is sampled
type Selector interface {
	// choose selects BatchSize() positions in [0, capacity)
	choose(capacity int) []int

	// BatchSize returns the number of elements that will be selected
	BatchSize() int
}

// CreateSelector returns a Selector of type t
func CreateSelector(t SelectorType, samples int, seed uint64) Selector {
	switch t {
	case Uniform:
		return NewUniformSelector(samples, seed)
	}
	panic(fmt.Sprintf("createselector: unknown selector type %v", t))
}

// uniformSelector selects data from an experience replay buffer
// uniformly randomly with replacement
type uniformSelector struct {
	samples int
	rng     *rand.Rand
}

// NewUniformSelector returns a new Selector which selects data uniformly
// randomly from an experience replay buffer
func NewUniformSelector(samples int, seed uint64) Selector {
	source := rand.NewSource(seed)
	rng := rand.New(source)

	return &uniformSelector{samples: samples, rng: rng}
}

// BatchSize gets the number of samples in a batch drawn from the buffer
func (u *uniformSelector) BatchSize() int {
	return u.samples
}

func (u *uniformSelector) choose(capacity int) []int {
	selected := make([]int, u.BatchSize())
	for i := range selected {
		selected[i] = u.rng.Intn(capacity)
	}
	return selected
}
