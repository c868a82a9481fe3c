package pg

import (
	"fmt"

	"github.com/samuelfneumann/gridrl/brain"
	"github.com/samuelfneumann/gridrl/environment"
	"github.com/samuelfneumann/gridrl/initwfn"
	"github.com/samuelfneumann/gridrl/network"
	"github.com/samuelfneumann/gridrl/solver"
)

func init() {
	brain.Register(brain.PolicyGradient, Config{})
}

// Config implements a configuration for a REINFORCE brain with an MLP
// policy
type Config struct {
	// LearningRate scales the policy gradient step in output space
	LearningRate float64

	// Discount is the discount factor ℽ, in [0, 1]
	Discount float64

	// HiddenSizes and Activation describe the hidden layers of the MLP
	HiddenSizes []int
	Activation  string

	// Solver names the optimizer that fits the MLP and StepSize is its
	// learning rate
	Solver   string
	StepSize float64

	// Init names the weight initializer of the MLP
	Init string
}

// Validate checks a Config for errors
func (c Config) Validate() error {
	if c.LearningRate <= 0 {
		return fmt.Errorf("validate: learning rate must be positive, got %v",
			c.LearningRate)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1], got %v",
			c.Discount)
	}
	for i, size := range c.HiddenSizes {
		if size <= 0 {
			return fmt.Errorf("validate: hidden layer %v has size %v", i,
				size)
		}
	}
	if c.StepSize <= 0 {
		return fmt.Errorf("validate: step size must be positive, got %v",
			c.StepSize)
	}
	if _, err := network.ParseActivation(c.activation()); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if _, err := solver.ParseType(c.solver()); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if _, err := initwfn.ParseType(c.initializer()); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	return nil
}

func (c Config) activation() string {
	if c.Activation == "" {
		return "relu"
	}
	return c.Activation
}

func (c Config) solver() string {
	if c.Solver == "" {
		return string(solver.Adam)
	}
	return c.Solver
}

func (c Config) initializer() string {
	if c.Init == "" {
		return string(initwfn.GlorotU)
	}
	return c.Init
}

// Type returns the brain type of the Config
func (c Config) Type() brain.Type {
	return brain.PolicyGradient
}

// Create creates a new REINFORCE brain for env whose MLP is initialized
// from seed
func (c Config) Create(env environment.Environment,
	seed uint64) (brain.Brain, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	solverType, _ := solver.ParseType(c.solver())
	s, err := solver.NewDefault(solverType, c.StepSize)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	initType, _ := initwfn.ParseType(c.initializer())
	initFn, err := initwfn.NewDefault(initType, seed)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	activations := make([]*network.Activation, len(c.HiddenSizes))
	for i := range activations {
		activations[i], _ = network.ParseActivation(c.activation())
	}

	mlp, err := network.NewMLP(env.ObservationSpec().Features(),
		env.Actions().Len(), c.HiddenSizes, activations, true,
		initFn.InitWFn(), s)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	b, err := New(env.Actions(), env, mlp, c.LearningRate, c.Discount)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}
	return b, nil
}
