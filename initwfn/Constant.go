package initwfn

import G "gorgonia.org/gorgonia"

// ZeroesConfig sets every weight to 0
type ZeroesConfig struct{}

// NewZeroes returns an initializer setting all weights to 0
func NewZeroes() (*InitWFn, error) {
	return newInitWFn(ZeroesConfig{})
}

func (ZeroesConfig) Type() Type        { return Zeroes }
func (ZeroesConfig) Validate() error   { return nil }
func (ZeroesConfig) Create() G.InitWFn { return G.Zeroes() }

// OnesConfig sets every weight to 1
type OnesConfig struct{}

// NewOnes returns an initializer setting all weights to 1
func NewOnes() (*InitWFn, error) {
	return newInitWFn(OnesConfig{})
}

func (OnesConfig) Type() Type        { return Ones }
func (OnesConfig) Validate() error   { return nil }
func (OnesConfig) Create() G.InitWFn { return G.Ones() }

// ConstantConfig sets every weight to Value
type ConstantConfig struct {
	Value float64
}

// NewConstant returns an initializer setting all weights to value
func NewConstant(value float64) (*InitWFn, error) {
	return newInitWFn(ConstantConfig{Value: value})
}

func (ConstantConfig) Type() Type      { return Constant }
func (ConstantConfig) Validate() error { return nil }

// Create returns the Gorgonia initializer
func (c ConstantConfig) Create() G.InitWFn {
	return G.ValuesOf(c.Value)
}
