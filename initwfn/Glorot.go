package initwfn

import (
	"math"

	G "gorgonia.org/gorgonia"
)

// GlorotUConfig implements a configuration of the Glorot Uniform
// initialization algorithm.
type GlorotUConfig struct {
	Gain float64
}

// NewGlorotU returns a new Glorot Uniform weight initializer
func NewGlorotU(gain float64, seed uint64) *InitWFn {
	return newInitWFn(GlorotUConfig{Gain: gain}, seed)
}

// Type returns the type of initialization algorithm described by
// the configuration.
func (g GlorotUConfig) Type() Type {
	return GlorotU
}

// Create returns the weight initialization algorithm as a Gorgonia
// InitWFn
func (g GlorotUConfig) Create(seed uint64) G.InitWFn {
	return uniform(seed, func(in, out float64) float64 {
		return g.Gain * math.Sqrt(6/(in+out))
	})
}

// GlorotNConfig implements a configuration of the Glorot Normal
// initialization algorithm.
type GlorotNConfig struct {
	Gain float64
}

// NewGlorotN returns a new Glorot Normal weight initializer.
func NewGlorotN(gain float64, seed uint64) *InitWFn {
	return newInitWFn(GlorotNConfig{Gain: gain}, seed)
}

// Type returns the type of initialization algorithm described by the
// configuration.
func (g GlorotNConfig) Type() Type {
	return GlorotN
}

// Create returns the weight initialization algorithm as a Gorgonia
// InitWFn
func (g GlorotNConfig) Create(seed uint64) G.InitWFn {
	return normal(seed, func(in, out float64) float64 {
		return g.Gain * math.Sqrt(2/(in+out))
	})
}
