// Package environment outlines the interfaces and structs needed to
// implement concrete grid environments
package environment

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// State is the position of an agent on a grid. Tabular value stores
// key on State directly, so it must stay comparable.
type State struct {
	Row, Col int
}

// String implements the fmt.Stringer interface
func (s State) String() string {
	return fmt.Sprintf("(%d, %d)", s.Row, s.Col)
}

// Move returns the State reached by moving one cell in direction a,
// without regard for grid bounds
func (s State) Move(a Action) State {
	dr, dc := a.Delta()
	return State{s.Row + dr, s.Col + dc}
}

// Manhattan returns the Manhattan distance between two States
func (s State) Manhattan(other State) int {
	return abs(s.Row-other.Row) + abs(s.Col-other.Col)
}

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	StartingState() State
}

// Task implements the reward scheme and terminal condition of an
// environment. GetReward must be a pure function of its arguments.
type Task interface {
	GetReward(s State, a Action) float64
	IsTerminal(s State) bool
}

// Environment implements a grid environment, which includes a Task to
// complete.
//
// PerformAction panics if s is terminal: acting from a terminal state
// is a programming error.
type Environment interface {
	Task
	Starter
	Actions() Actions
	PerformAction(s State, a Action) State

	// Observation returns the occupancy grid for s, used by function
	// approximators
	Observation(s State) *mat.Dense
	ObservationSpec() Spec

	// Optimal returns the minimum number of actions needed to reach
	// a terminal state from s
	Optimal(s State) int
}

// Clip clips s to lie within a grid of r rows and c columns
func Clip(s State, r, c int) State {
	return State{clip(s.Row, 0, r-1), clip(s.Col, 0, c-1)}
}

func clip(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
