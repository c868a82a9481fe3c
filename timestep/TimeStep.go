// Package timestep implements transitions of the agent-environment
// interaction
package timestep

import (
	"fmt"

	"github.com/samuelfneumann/gridrl/environment"
)

// StepType denotes the type of step that a Transition can be, either
// the first environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// Transition packages together a single step in an environment. Values
// and Probs hold the estimator output and the action distribution the
// policy used when selecting Action; both are indexed by the shared
// environment.Actions enumeration.
//
// A Transition into a terminal state has type Last. A terminal state
// never appears as State.
type Transition struct {
	stepType  StepType
	State     environment.State
	Action    environment.Action
	Reward    float64
	NextState environment.State
	Values    []float64
	Probs     []float64
	Number    int
}

// New returns a new Transition
func New(t StepType, s environment.State, a environment.Action, r float64,
	next environment.State, values, probs []float64, n int) Transition {
	return Transition{t, s, a, r, next, values, probs, n}
}

// Type returns the StepType of the Transition
func (t Transition) Type() StepType {
	return t.stepType
}

// First returns whether a Transition is the first in an episode
func (t Transition) First() bool {
	return t.stepType == First
}

// Mid returns whether a Transition is a middle step in an episode
func (t Transition) Mid() bool {
	return t.stepType == Mid
}

// Last returns whether a Transition enters a terminal state
func (t Transition) Last() bool {
	return t.stepType == Last
}

func (t Transition) String() string {
	str := "Transition | Type: %v  |  %v --%v--> %v  |  Reward:  %.2f  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.stepType, t.State, t.Action, t.NextState,
		t.Reward, t.Number)
}
