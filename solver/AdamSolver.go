package solver

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// AdamConfig describes a configuration of the Adam solver
type AdamConfig struct {
	Step
	Epsilon float64 // Smoothing factor
	Beta1   float64
	Beta2   float64
}

// NewDefaultAdam returns an Adam Solver with the usual moment decay
// rates
func NewDefaultAdam(stepSize float64) (*Solver, error) {
	return NewAdam(Step{StepSize: stepSize}, 1e-8, 0.9, 0.999)
}

// NewAdam returns a new Adam Solver
func NewAdam(step Step, epsilon, beta1, beta2 float64) (*Solver, error) {
	return newSolver(Adam, AdamConfig{
		Step:    step,
		Epsilon: epsilon,
		Beta1:   beta1,
		Beta2:   beta2,
	})
}

// Create returns a new Gorgonia Adam Solver
func (a AdamConfig) Create() G.Solver {
	opts := append(a.opts(),
		G.WithEps(a.Epsilon),
		G.WithBeta1(a.Beta1),
		G.WithBeta2(a.Beta2),
	)
	return G.NewAdamSolver(opts...)
}

// ValidType returns if the given Solver type is a valid type to be
// created with this config.
func (a AdamConfig) ValidType(t Type) bool {
	return t == Adam
}

// Validate checks the hyperparameters for errors
func (a AdamConfig) Validate() error {
	if err := a.validate(); err != nil {
		return err
	}
	if a.Beta1 < 0 || a.Beta1 >= 1 || a.Beta2 < 0 || a.Beta2 >= 1 {
		return fmt.Errorf("validate: betas must be in [0, 1)")
	}
	return nil
}
