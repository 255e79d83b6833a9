// Package solver wraps Gorgonia Solvers so that learner configurations
// holding them can be JSON serialized.
package solver

import (
	"encoding/json"
	"fmt"
	"reflect"

	G "gorgonia.org/gorgonia"
)

// Type names a kind of solver
type Type string

// Available solver types
const (
	Adam    Type = "Adam"
	Vanilla Type = "Vanilla"
	RMSProp Type = "RMSProp"
)

var configTypes = map[Type]reflect.Type{
	Adam:    reflect.TypeOf(AdamConfig{}),
	Vanilla: reflect.TypeOf(VanillaConfig{}),
	RMSProp: reflect.TypeOf(RMSPropConfig{}),
}

// Solver wraps a Gorgonia Solver together with the Config that created
// it.
type Solver struct {
	G.Solver `json:"-"`
	Type
	Config
}

// New returns a solver of type t with default hyperparameters for the
// given step size and batch size. Gradients are clipped to clip if it
// is positive.
func New(t Type, stepSize float64, batchSize int,
	clip float64) (*Solver, error) {
	switch t {
	case Adam:
		return NewAdam(stepSize, 1e-8, 0.9, 0.999, batchSize, clip)
	case RMSProp:
		return NewRMSProp(stepSize, 1e-8, 0.001, 0.999, batchSize, clip)
	case Vanilla:
		return NewVanilla(stepSize, batchSize, clip)
	default:
		return nil, fmt.Errorf("new: unknown solver type %q", t)
	}
}

func newSolver(c Config) (*Solver, error) {
	if _, ok := configTypes[c.Type()]; !ok {
		return nil, fmt.Errorf("newsolver: unknown solver type %v", c.Type())
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newsolver: %v", err)
	}
	solver := Solver{Type: c.Type(), Config: c}
	solver.Solver = c.Create()

	return &solver, nil
}

func validateStep(stepSize float64, batch int) error {
	if stepSize <= 0 {
		return fmt.Errorf("validate: step size must be positive "+
			"\n\thave(%v)", stepSize)
	}
	if batch < 1 {
		return fmt.Errorf("validate: batch size must be positive "+
			"\n\thave(%v)", batch)
	}
	return nil
}

// withClip adds gradient clipping to opts if clip is positive
func withClip(opts []G.SolverOpt, clip float64) []G.SolverOpt {
	if clip > 0 {
		return append(opts, G.WithClip(clip))
	}
	return opts
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Solver) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type   Type
		Config json.RawMessage
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshaljson: %v", err)
	}

	ty, ok := configTypes[raw.Type]
	if !ok {
		return fmt.Errorf("unmarshaljson: unknown solver type %q", raw.Type)
	}

	config := reflect.New(ty)
	if err := json.Unmarshal(raw.Config, config.Interface()); err != nil {
		return fmt.Errorf("unmarshaljson: could not decode %v config: %v",
			raw.Type, err)
	}

	c := config.Elem().Interface().(Config)
	if err := c.Validate(); err != nil {
		return fmt.Errorf("unmarshaljson: %v", err)
	}

	s.Type = raw.Type
	s.Config = c
	s.Solver = c.Create()

	return nil
}

// Config describes a Gorgonia Solver and can create it
type Config interface {
	Create() G.Solver
	Type() Type

	// Validate checks the hyperparameters of the solver
	Validate() error
}
