package initwfn

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// UniformConfig implements a configuration of a weight initializer that
// draws weights from a uniform distribution
type UniformConfig struct {
	Low, High float64
}

// NewUniform returns a new uniform weight initializer
func NewUniform(low, high float64, seed uint64) *InitWFn {
	return newInitWFn(UniformConfig{Low: low, High: high}, seed)
}

// Type returns the type of initialization algorithm described by
// the configuration.
func (u UniformConfig) Type() Type {
	return Uniform
}

// Create returns the weight initialization algorithm as a Gorgonia
// InitWFn
func (u UniformConfig) Create(seed uint64) G.InitWFn {
	dist := distuv.Uniform{Min: u.Low, Max: u.High,
		Src: rand.NewSource(seed)}
	return func(dt tensor.Dtype, s ...int) interface{} {
		return fill(dt, s, dist.Rand)
	}
}

// GaussianConfig implements a configuration of a weight initializer
// that draws weights from a gaussian distribution
type GaussianConfig struct {
	Mean, StdDev float64
}

// NewGaussian returns a new gaussian weight initializer
func NewGaussian(mean, stddev float64, seed uint64) *InitWFn {
	return newInitWFn(GaussianConfig{Mean: mean, StdDev: stddev}, seed)
}

// Type returns the type of initialization algorithm described by
// the configuration.
func (g GaussianConfig) Type() Type {
	return Gaussian
}

// Create returns the weight initialization algorithm as a Gorgonia
// InitWFn
func (g GaussianConfig) Create(seed uint64) G.InitWFn {
	dist := distuv.Normal{Mu: g.Mean, Sigma: g.StdDev,
		Src: rand.NewSource(seed)}
	return func(dt tensor.Dtype, s ...int) interface{} {
		return fill(dt, s, dist.Rand)
	}
}
