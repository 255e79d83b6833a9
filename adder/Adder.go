// Package adder implements adders, which turn the stream of timesteps
// and actions an actor observes into experience written to a replay
// buffer.
package adder

import (
	"fmt"

	"github.com/samuelfneumann/daxqn/expreplay"
	"github.com/samuelfneumann/daxqn/timestep"
	"gonum.org/v1/gonum/mat"
)

// Adder records experience
type Adder interface {
	// AddFirst starts a new episode at the first timestep
	AddFirst(timestep.TimeStep) error

	// Add records the action taken and the timestep it led to
	Add(action mat.Vector, next timestep.TimeStep) error

	// Reset drops any experience of the current episode that has not
	// been written yet
	Reset()
}

// pending is a transition still accumulating rewards
type pending struct {
	state    mat.Vector
	action   mat.Vector
	reward   float64
	discount float64
}

// NStepTransition writes n-step transitions
//
//	(s_t, a_t, R, D, s_{t+n})
//	R = r_{t+1} + d_{t+1} r_{t+2} + ... + d_{t+1}...d_{t+n-1} r_{t+n}
//	D = d_{t+1}...d_{t+n}
//
// to a replay buffer, where r and d are the rewards and discounts of
// the timesteps. At the end of an episode the remaining transitions are
// written with fewer than n steps.
type NStepTransition struct {
	replay expreplay.ExperienceReplayer
	n      int

	started bool
	prevObs mat.Vector
	buffer  []pending
}

// NewNStepTransition returns a new NStepTransition adder writing to
// replay
func NewNStepTransition(replay expreplay.ExperienceReplayer,
	n int) (*NStepTransition, error) {
	if n < 1 {
		return nil, fmt.Errorf("newnsteptransition: n must be positive "+
			"\n\thave(%v)", n)
	}
	return &NStepTransition{
		replay: replay,
		n:      n,
		buffer: make([]pending, 0, n),
	}, nil
}

// N returns the number of steps in each full transition
func (a *NStepTransition) N() int {
	return a.n
}

// AddFirst starts a new episode
func (a *NStepTransition) AddFirst(t timestep.TimeStep) error {
	if !t.First() {
		return fmt.Errorf("addfirst: expected first timestep \n\thave(%v)",
			t.StepType)
	}
	a.Reset()
	a.prevObs = t.Observation
	a.started = true
	return nil
}

// Add records the action taken in the previous timestep and the
// timestep it led to
func (a *NStepTransition) Add(action mat.Vector, next timestep.TimeStep) error {
	if !a.started {
		return fmt.Errorf("add: AddFirst must be called before Add")
	}
	if next.First() {
		return fmt.Errorf("add: unexpected first timestep, use AddFirst " +
			"to start a new episode")
	}

	a.buffer = append(a.buffer, pending{
		state:    a.prevObs,
		action:   mat.VecDenseCopyOf(action),
		discount: 1.0,
	})

	for i := range a.buffer {
		a.buffer[i].reward += a.buffer[i].discount * next.Reward
		a.buffer[i].discount *= next.Discount
	}
	a.prevObs = next.Observation

	if next.Last() {
		defer a.Reset()
		for len(a.buffer) > 0 {
			if err := a.write(next.Observation); err != nil {
				return err
			}
		}
		return nil
	}

	if len(a.buffer) == a.n {
		return a.write(next.Observation)
	}
	return nil
}

// write writes the oldest pending transition to the replay buffer
func (a *NStepTransition) write(nextObs mat.Vector) error {
	p := a.buffer[0]
	a.buffer = a.buffer[1:]

	transition := timestep.Transition{
		State:     p.state,
		Action:    p.action,
		Reward:    p.reward,
		Discount:  p.discount,
		NextState: nextObs,
	}
	if err := a.replay.Add(transition); err != nil {
		return fmt.Errorf("write: could not add transition: %v", err)
	}
	return nil
}

// Reset ends the current episode without writing pending transitions
func (a *NStepTransition) Reset() {
	a.started = false
	a.prevObs = nil
	a.buffer = a.buffer[:0]
}
