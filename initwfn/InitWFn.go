// Package initwfn wraps Gorgonia weight initializers so that network
// configurations holding them can be JSON serialized.
package initwfn

import (
	"encoding/json"
	"fmt"
	"reflect"

	G "gorgonia.org/gorgonia"
)

// Type names a kind of weight initializer
type Type string

// Available InitWFn types
const (
	GlorotU  Type = "GlorotU"
	GlorotN  Type = "GlorotN"
	HeU      Type = "HeU"
	HeN      Type = "HeN"
	Zeroes   Type = "Zeroes"
	Ones     Type = "Ones"
	Constant Type = "Constant"
	Uniform  Type = "Uniform"
	Gaussian Type = "Gaussian"
)

// configTypes maps each Type to the concrete Config it is decoded into
var configTypes = map[Type]reflect.Type{
	GlorotU:  reflect.TypeOf(GlorotUConfig{}),
	GlorotN:  reflect.TypeOf(GlorotNConfig{}),
	HeU:      reflect.TypeOf(HeUConfig{}),
	HeN:      reflect.TypeOf(HeNConfig{}),
	Zeroes:   reflect.TypeOf(ZeroesConfig{}),
	Ones:     reflect.TypeOf(OnesConfig{}),
	Constant: reflect.TypeOf(ConstantConfig{}),
	Uniform:  reflect.TypeOf(UniformConfig{}),
	Gaussian: reflect.TypeOf(GaussianConfig{}),
}

// InitWFn wraps a Gorgonia InitWFn together with the Config that
// created it.
type InitWFn struct {
	initWFn G.InitWFn
	Type
	Config
}

func newInitWFn(c Config) (*InitWFn, error) {
	if _, ok := configTypes[c.Type()]; !ok {
		return nil, fmt.Errorf("newinitwfn: unknown initializer type %v",
			c.Type())
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newinitwfn: %v", err)
	}
	init := InitWFn{Type: c.Type(), Config: c}
	init.initWFn = init.Config.Create()

	return &init, nil
}

// InitWFn returns the wrapped Gorgonia InitWFn
func (i *InitWFn) InitWFn() G.InitWFn {
	return i.initWFn
}

func (i *InitWFn) String() string {
	return fmt.Sprintf("{%v InitWFn: %v}", i.Type, i.Config)
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (i *InitWFn) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type   Type
		Config json.RawMessage
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshaljson: %v", err)
	}

	ty, ok := configTypes[raw.Type]
	if !ok {
		return fmt.Errorf("unmarshaljson: unknown initializer type %q",
			raw.Type)
	}

	config := reflect.New(ty)
	if len(raw.Config) > 0 && string(raw.Config) != "null" {
		if err := json.Unmarshal(raw.Config, config.Interface()); err != nil {
			return fmt.Errorf("unmarshaljson: could not decode %v "+
				"config: %v", raw.Type, err)
		}
	}

	c := config.Elem().Interface().(Config)
	if err := c.Validate(); err != nil {
		return fmt.Errorf("unmarshaljson: %v", err)
	}

	i.Type = raw.Type
	i.Config = c
	i.initWFn = c.Create()

	return nil
}

// Config describes a Gorgonia InitWFn and can create it
type Config interface {
	Create() G.InitWFn
	Type() Type

	// Validate checks the parameters of the initializer
	Validate() error
}
