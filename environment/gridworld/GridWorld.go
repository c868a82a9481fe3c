// Package gridworld implements 2D gridworld environments
package gridworld

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gridrl/environment"
	"github.com/samuelfneumann/gridrl/utils/matutils"
)

// GridWorld represents a gridworld environment
//
// Only the grid dimensions are tracked by the GridWorld; positions are
// passed in and out as environment.State values so that transitions
// and rewards stay pure functions of their arguments. Moves that would
// leave the grid leave the position unchanged.
type GridWorld struct {
	*Goal
	environment.Starter
	r, c    int
	actions environment.Actions
}

// New creates a new gridworld with r rows and c columns, task t and
// start distribution s. The actions argument fixes the action
// enumeration used by every caller.
func New(r, c int, t *Goal, s environment.Starter,
	actions environment.Actions) (*GridWorld, error) {
	if r <= 0 || c <= 0 {
		return nil, fmt.Errorf("new: grid (%d, %d) must have positive "+
			"dimensions", r, c)
	}
	if tr, tc := t.Dims(); tr != r || tc != c {
		return nil, fmt.Errorf("new: task dimensions do not match grid "+
			"\n\twant(%d, %d)\n\thave(%d, %d)", r, c, tr, tc)
	}
	if err := actions.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	return &GridWorld{t, s, r, c, actions}, nil
}

// Dims gets the rows and columns of the GridWorld
func (g *GridWorld) Dims() (r, c int) {
	return g.r, g.c
}

// Actions returns the action enumeration of the GridWorld
func (g *GridWorld) Actions() environment.Actions {
	return g.actions
}

// PerformAction returns the state reached by taking action a in state
// s. It panics if s is terminal or outside the grid.
func (g *GridWorld) PerformAction(s environment.State,
	a environment.Action) environment.State {
	if g.IsTerminal(s) {
		panic(fmt.Sprintf("performAction: action %v requested from "+
			"terminal state %v", a, s))
	}
	if !g.contains(s) {
		panic(fmt.Sprintf("performAction: state %v outside grid (%d, %d)",
			s, g.r, g.c))
	}
	return g.next(s, a)
}

// Observation returns an r x c occupancy grid with a 1.0 at the
// position of s
func (g *GridWorld) Observation(s environment.State) *mat.Dense {
	obs := mat.NewDense(g.r, g.c, nil)
	obs.Set(s.Row, s.Col, 1.0)
	return obs
}

// ObservationSpec returns the specification of observations
func (g *GridWorld) ObservationSpec() environment.Spec {
	return environment.NewSpec(g.r, g.c, 0.0, 1.0, environment.Discrete)
}

// Optimal returns the minimum number of actions needed to reach the
// nearest goal from s
func (g *GridWorld) Optimal(s environment.State) int {
	return g.nearest(s)
}

func (g *GridWorld) contains(s environment.State) bool {
	return s.Row >= 0 && s.Row < g.r && s.Col >= 0 && s.Col < g.c
}

func (g *GridWorld) String() string {
	str := "GridWorld | Goals: %v  |  Bounds: (%d, %d)"
	return fmt.Sprintf(str, matutils.Format(g.Goal.goalMatrix()), g.r, g.c)
}
