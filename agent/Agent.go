// Package agent defines the interfaces through which an agent selects
// actions, along with the episode context and exploration schedules
// that drive action selection
package agent

import (
	"fmt"

	"github.com/samuelfneumann/gridrl/environment"
)

// Estimator provides a vector of estimates for a state, one entry per
// action in the shared environment.Actions enumeration. Brains are
// Estimators.
type Estimator interface {
	Estimate(s environment.State) []float64
}

// OutputKind describes how a Policy should read an Estimator's output
type OutputKind int

const (
	// Values are unnormalized action values (or logits)
	Values OutputKind = iota

	// Probabilities are already a distribution over actions
	Probabilities
)

func (o OutputKind) String() string {
	if o == Probabilities {
		return "Probabilities"
	}
	return "Values"
}

// Context is owned by the training loop and threaded through every
// action selection of an episode. Policies and brains read it but
// never keep it.
type Context struct {
	Episode  int
	Epsilon  float64
	Training bool
}

// NewContext returns the Context of episode under schedule
func NewContext(episode int, schedule Schedule) Context {
	return Context{
		Episode:  episode,
		Epsilon:  schedule.Epsilon(episode),
		Training: episode < schedule.Horizon(),
	}
}

// Selection is the result of selecting an action. Values holds the
// estimator output used for the selection and Probs the distribution
// the action was drawn from; both are indexed like the action
// enumeration.
type Selection struct {
	Action environment.Action
	Values []float64
	Probs  []float64
}

// Policy represents the action selection rule of an agent.
//
// Policies hold no exploration state of their own: everything that
// changes between episodes arrives through the Context.
type Policy interface {
	SelectAction(ctx Context, s environment.State, est Estimator) Selection
	Type() PolicyType
}

// Agent selects actions in an environment using a Policy
type Agent struct {
	Policy
	actions environment.Actions
}

// New returns a new Agent acting with policy p over actions
func New(p Policy, actions environment.Actions) (*Agent, error) {
	if err := actions.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	return &Agent{p, actions}, nil
}

// Actions returns the action enumeration of the Agent
func (a *Agent) Actions() environment.Actions {
	return a.actions
}

// GetAction selects an action in state s of env using the estimates
// of est. Selecting an action for a terminal state is a programming
// error and panics.
func (a *Agent) GetAction(ctx Context, s environment.State, est Estimator,
	env environment.Environment) Selection {
	if env.IsTerminal(s) {
		panic(fmt.Sprintf("getAction: action requested for terminal "+
			"state %v", s))
	}
	return a.SelectAction(ctx, s, est)
}
