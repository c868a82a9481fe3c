package initwfn

import (
	"math"

	G "gorgonia.org/gorgonia"
)

// HeUConfig implements a configuration of the He uniform
// initialization algorithm.
type HeUConfig struct {
	Gain float64
}

// NewHeU returns a new He Uniform weight initializer
func NewHeU(gain float64, seed uint64) *InitWFn {
	return newInitWFn(HeUConfig{Gain: gain}, seed)
}

// Type returns the type of initialization algorithm described by
// the configuration.
func (h HeUConfig) Type() Type {
	return HeU
}

// Create returns the weight initialization algorithm as a Gorgonia
// InitWFn
func (h HeUConfig) Create(seed uint64) G.InitWFn {
	return uniform(seed, func(in, _ float64) float64 {
		return h.Gain * math.Sqrt(6/in)
	})
}

// HeNConfig implements a configuration of the He normal
// initialization algorithm.
type HeNConfig struct {
	Gain float64
}

// NewHeN returns a new He Normal weight initializer
func NewHeN(gain float64, seed uint64) *InitWFn {
	return newInitWFn(HeNConfig{Gain: gain}, seed)
}

func (h HeNConfig) Type() Type {
	return HeN
}

func (h HeNConfig) Create(seed uint64) G.InitWFn {
	return normal(seed, func(in, _ float64) float64 {
		return h.Gain * math.Sqrt(2/in)
	})
}
