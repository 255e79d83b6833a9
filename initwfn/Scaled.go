package initwfn

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// The Glorot and He initializers scale the variance of the weights by
// the fan in and fan out of a layer, multiplied by a gain.

func validateGain(t Type, gain float64) error {
	if gain <= 0 {
		return fmt.Errorf("validate: %v gain must be positive \n\thave(%v)",
			t, gain)
	}
	return nil
}

// GlorotUConfig configures Glorot uniform initialization
type GlorotUConfig struct {
	Gain float64
}

// NewGlorotU returns a Glorot uniform initializer
func NewGlorotU(gain float64) (*InitWFn, error) {
	return newInitWFn(GlorotUConfig{Gain: gain})
}

func (GlorotUConfig) Type() Type          { return GlorotU }
func (g GlorotUConfig) Validate() error   { return validateGain(GlorotU, g.Gain) }
func (g GlorotUConfig) Create() G.InitWFn { return G.GlorotU(g.Gain) }

// GlorotNConfig configures Glorot normal initialization
type GlorotNConfig struct {
	Gain float64
}

// NewGlorotN returns a Glorot normal initializer
func NewGlorotN(gain float64) (*InitWFn, error) {
	return newInitWFn(GlorotNConfig{Gain: gain})
}

func (GlorotNConfig) Type() Type          { return GlorotN }
func (g GlorotNConfig) Validate() error   { return validateGain(GlorotN, g.Gain) }
func (g GlorotNConfig) Create() G.InitWFn { return G.GlorotN(g.Gain) }

// HeUConfig configures He uniform initialization
type HeUConfig struct {
	Gain float64
}

// NewHeU returns a He uniform initializer. A gain of √2 suits ReLU
// layers.
func NewHeU(gain float64) (*InitWFn, error) {
	return newInitWFn(HeUConfig{Gain: gain})
}

func (HeUConfig) Type() Type          { return HeU }
func (h HeUConfig) Validate() error   { return validateGain(HeU, h.Gain) }
func (h HeUConfig) Create() G.InitWFn { return G.HeU(h.Gain) }

// HeNConfig configures He normal initialization
type HeNConfig struct {
	Gain float64
}

// NewHeN returns a He normal initializer
func NewHeN(gain float64) (*InitWFn, error) {
	return newInitWFn(HeNConfig{Gain: gain})
}

func (HeNConfig) Type() Type          { return HeN }
func (h HeNConfig) Validate() error   { return validateGain(HeN, h.Gain) }
func (h HeNConfig) Create() G.InitWFn { return G.HeN(h.Gain) }
