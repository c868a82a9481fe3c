package solver

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// RMSPropConfig describes a configuration of the RMSProp solver
type RMSPropConfig struct {
	Step
	Epsilon float64
	Rho     float64 // Decay of the squared gradient average
}

// NewDefaultRMSProp returns an RMSProp Solver with a slowly decaying
// squared gradient average
func NewDefaultRMSProp(stepSize float64) (*Solver, error) {
	return NewRMSProp(Step{StepSize: stepSize}, 1e-8, 0.999)
}

// NewRMSProp returns a new RMSProp Solver
func NewRMSProp(step Step, epsilon, rho float64) (*Solver, error) {
	return newSolver(RMSProp, RMSPropConfig{
		Step:    step,
		Epsilon: epsilon,
		Rho:     rho,
	})
}

// Create returns a new Gorgonia RMSProp Solver
func (r RMSPropConfig) Create() G.Solver {
	opts := append(r.opts(), G.WithEps(r.Epsilon), G.WithRho(r.Rho))
	return G.NewRMSPropSolver(opts...)
}

// ValidType returns if the given Solver type is a valid type to be
// created with this config.
func (r RMSPropConfig) ValidType(t Type) bool {
	return t == RMSProp
}

// Validate checks the hyperparameters for errors
func (r RMSPropConfig) Validate() error {
	if err := r.validate(); err != nil {
		return err
	}
	if r.Rho <= 0 || r.Rho >= 1 {
		return fmt.Errorf("validate: rho must be in (0, 1)")
	}
	return nil
}
