package solver

import G "gorgonia.org/gorgonia"

// VanillaConfig describes plain stochastic gradient descent
type VanillaConfig struct {
	Step
}

// NewVanilla returns a new Vanilla Solver
func NewVanilla(step Step) (*Solver, error) {
	return newSolver(Vanilla, VanillaConfig{step})
}

// Create returns a Gorgonia Vanilla Solver
func (v VanillaConfig) Create() G.Solver {
	return G.NewVanillaSolver(v.opts()...)
}

// ValidType returns if the given Solver type is a valid type to be
// created with this config.
func (v VanillaConfig) ValidType(t Type) bool {
	return t == Vanilla
}

// Validate checks the hyperparameters for errors
func (v VanillaConfig) Validate() error {
	return v.validate()
}
