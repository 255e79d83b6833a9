// Package actor implements actors, which select actions in an
// environment with a policy network and pass on what they observe.
package actor

import (
	"fmt"
	"reflect"

	"github.com/samuelfneumann/daxqn/adder"
	"github.com/samuelfneumann/daxqn/distribution"
	"github.com/samuelfneumann/daxqn/timestep"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// PolicyNetwork maps a batch of observations to either a batch of
// actions, as a *tensor.Dense with the batch as its leading dimension,
// or a distribution.Distribution over actions
type PolicyNetwork interface {
	Forward(obs *tensor.Dense) (interface{}, error)
}

// VariableClient updates the weights of a policy network
type VariableClient interface {
	Update(wait bool) error
}

// FeedForward is an actor with a feed forward policy network. It takes
// single observations and returns single actions, recording experience
// with an optional adder and updating its policy through an optional
// variable client.
type FeedForward struct {
	policy PolicyNetwork
	adder  adder.Adder
	client VariableClient
}

// NewFeedForward returns a new FeedForward actor. The adder and
// client may be nil, including nil pointers of a concrete type, in
// which case the operations which use them do nothing.
func NewFeedForward(policy PolicyNetwork, a adder.Adder,
	client VariableClient) (*FeedForward, error) {
	if policy == nil {
		return nil, fmt.Errorf("newfeedforward: a policy network is required")
	}

	f := &FeedForward{policy: policy}
	if !isNil(a) {
		f.adder = a
	}
	if !isNil(client) {
		f.client = client
	}
	return f, nil
}

// isNil reports whether v is nil or an interface holding a nil pointer
func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func,
		reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// SelectAction returns the action the policy takes for observation.
// The policy is run on a batch of one observation and its output,
// sampled if it is a distribution, has its batch dimension removed.
func (f *FeedForward) SelectAction(observation mat.Vector) (*mat.VecDense,
	error) {
	batched := tensor.New(
		tensor.WithShape(1, observation.Len()),
		tensor.WithBacking(mat.Col(nil, 0, observation)),
	)

	out, err := f.policy.Forward(batched)
	if err != nil {
		return nil, fmt.Errorf("selectaction: could not run policy: %v", err)
	}

	var action *tensor.Dense
	switch policy := out.(type) {
	case distribution.Distribution:
		if action, err = policy.Sample(); err != nil {
			return nil, fmt.Errorf("selectaction: could not sample "+
				"policy: %v", err)
		}

	case *tensor.Dense:
		action = policy

	default:
		return nil, fmt.Errorf("selectaction: policy output must be an "+
			"action tensor or a distribution \n\thave(%T)", out)
	}

	return squeeze(action)
}

// squeeze removes the leading batch dimension of size 1 from t and
// returns its values
func squeeze(t *tensor.Dense) (*mat.VecDense, error) {
	shape := t.Shape()
	if len(shape) == 0 || shape[0] != 1 {
		return nil, fmt.Errorf("squeeze: expected a batch of size 1 "+
			"\n\thave(%v)", shape)
	}
	if t.Size() == 0 {
		return nil, fmt.Errorf("squeeze: empty action")
	}

	var data []float64
	switch values := t.Materialize().Data().(type) {
	case []float64:
		data = append(data, values...)
	case float64:
		data = []float64{values}
	default:
		return nil, fmt.Errorf("squeeze: actions must be float64 "+
			"\n\thave(%v)", t.Dtype())
	}
	return mat.NewVecDense(len(data), data), nil
}

// ObserveFirst passes the first timestep of an episode to the adder
func (f *FeedForward) ObserveFirst(t timestep.TimeStep) error {
	if f.adder == nil {
		return nil
	}
	return f.adder.AddFirst(t)
}

// Observe passes the action taken and the timestep it led to to the
// adder
func (f *FeedForward) Observe(action mat.Vector, next timestep.TimeStep) error {
	if f.adder == nil {
		return nil
	}
	return f.adder.Add(action, next)
}

// Update updates the policy network through the variable client
func (f *FeedForward) Update(wait bool) error {
	if f.client == nil {
		return nil
	}
	return f.client.Update(wait)
}
