package expreplay

import (
	"fmt"
	"sync"

	"github.com/samuelfneumann/daxqn/timestep"
)

// fifoCache is a ring buffer of transitions. Once full, each added
// transition overwrites the oldest one.
type fifoCache struct {
	mu sync.RWMutex

	includeNextAction bool

	stateCache      []float64
	actionCache     []float64
	rewardCache     []float64
	discountCache   []float64
	nextStateCache  []float64
	nextActionCache []float64

	currentInUsePos int
	isFull          bool

	sampler Selector

	minCapacity int
	maxCapacity int
	featureSize int
	actionSize  int
}

func newFifoCache(sampler Selector, minCapacity, maxCapacity,
	featureSize, actionSize int, includeNextAction bool) *fifoCache {
	var nextActionCache []float64
	if includeNextAction {
		nextActionCache = make([]float64, maxCapacity*actionSize)
	}

	return &fifoCache{
		includeNextAction: includeNextAction,

		stateCache:      make([]float64, maxCapacity*featureSize),
		actionCache:     make([]float64, maxCapacity*actionSize),
		rewardCache:     make([]float64, maxCapacity),
		discountCache:   make([]float64, maxCapacity),
		nextStateCache:  make([]float64, maxCapacity*featureSize),
		nextActionCache: nextActionCache,

		sampler: sampler,

		minCapacity: minCapacity,
		maxCapacity: maxCapacity,
		featureSize: featureSize,
		actionSize:  actionSize,
	}
}

func (f *fifoCache) String() string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return fmt.Sprintf("FIFO replay | capacity: %v/%v  |  next write: %v",
		f.capacity(), f.maxCapacity, f.currentInUsePos)
}

// BatchSize returns the number of samples sampled using Sample()
func (f *fifoCache) BatchSize() int {
	return f.sampler.BatchSize()
}

// Capacity returns the current number of transitions in the buffer
func (f *fifoCache) Capacity() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.capacity()
}

func (f *fifoCache) capacity() int {
	if f.isFull {
		return f.maxCapacity
	}
	return f.currentInUsePos
}

// MaxCapacity returns the maximum number of transitions in the buffer
func (f *fifoCache) MaxCapacity() int {
	return f.maxCapacity
}

// MinCapacity returns the minimum number of transitions required in
// the buffer before sampling is allowed
func (f *fifoCache) MinCapacity() int {
	return f.minCapacity
}

// Add adds a transition to the buffer
func (f *fifoCache) Add(t timestep.Transition) error {
	if t.State.Len() != f.featureSize || t.NextState.Len() != f.featureSize {
		return fmt.Errorf("add: invalid feature size \n\twant(%v)"+
			"\n\thave(%v, %v)", f.featureSize, t.State.Len(),
			t.NextState.Len())
	}
	if t.Action.Len() != f.actionSize {
		return fmt.Errorf("add: invalid action size \n\twant(%v)\n\thave(%v)",
			f.actionSize, t.Action.Len())
	}
	if f.includeNextAction && (t.NextAction == nil ||
		t.NextAction.Len() != f.actionSize) {
		return fmt.Errorf("add: invalid next action \n\twant(%v)",
			f.actionSize)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	index := f.currentInUsePos

	stateInd := index * f.featureSize
	copyVec(f.stateCache[stateInd:stateInd+f.featureSize], t.State)
	copyVec(f.nextStateCache[stateInd:stateInd+f.featureSize], t.NextState)

	actionInd := index * f.actionSize
	copyVec(f.actionCache[actionInd:actionInd+f.actionSize], t.Action)
	if f.includeNextAction {
		copyVec(f.nextActionCache[actionInd:actionInd+f.actionSize],
			t.NextAction)
	}

	f.rewardCache[index] = t.Reward
	f.discountCache[index] = t.Discount

	if index+1 == f.maxCapacity {
		f.isFull = true
	}
	f.currentInUsePos = (index + 1) % f.maxCapacity
	return nil
}

// Sample samples a batch of transitions uniformly from the buffer
func (f *fifoCache) Sample() ([]float64, []float64, []float64,
	[]float64, []float64, []float64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.capacity() == 0 {
		err := &ExpReplayError{Op: "sample", Err: errEmptyCache}
		return nil, nil, nil, nil, nil, nil, err
	}
	if f.capacity() < f.minCapacity {
		err := &ExpReplayError{Op: "sample", Err: errInsufficientSamples}
		return nil, nil, nil, nil, nil, nil, err
	}

	indices := f.sampler.choose(f.capacity())
	batch := len(indices)

	stateBatch := make([]float64, 0, batch*f.featureSize)
	nextStateBatch := make([]float64, 0, batch*f.featureSize)
	actionBatch := make([]float64, 0, batch*f.actionSize)
	var nextActionBatch []float64
	if f.includeNextAction {
		nextActionBatch = make([]float64, 0, batch*f.actionSize)
	}
	rewardBatch := make([]float64, batch)
	discountBatch := make([]float64, batch)

	for i, index := range indices {
		s := index * f.featureSize
		stateBatch = append(stateBatch, f.stateCache[s:s+f.featureSize]...)
		nextStateBatch = append(nextStateBatch,
			f.nextStateCache[s:s+f.featureSize]...)

		a := index * f.actionSize
		actionBatch = append(actionBatch, f.actionCache[a:a+f.actionSize]...)
		if f.includeNextAction {
			nextActionBatch = append(nextActionBatch,
				f.nextActionCache[a:a+f.actionSize]...)
		}

		rewardBatch[i] = f.rewardCache[index]
		discountBatch[i] = f.discountCache[index]
	}

	return stateBatch, actionBatch, rewardBatch, discountBatch,
		nextStateBatch, nextActionBatch, nil
}
