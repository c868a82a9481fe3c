package gridworld

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gridrl/environment"
)

// Goal represents the task of reaching goal states in a GridWorld
type Goal struct {
	goals          []environment.State
	r, c           int // total rows and columns in environment
	timeStepReward float64
	goalReward     float64
}

// NewGoal creates and returns a new goal task with goal cells goals,
// given that the gridworld has r rows and c columns. Each action costs
// tr unless it enters a goal cell, in which case gr is returned.
func NewGoal(goals []environment.State, r, c int, tr, gr float64) (*Goal,
	error) {
	if len(goals) == 0 {
		return nil, fmt.Errorf("newGoal: at least one goal is required")
	}

	for i, g := range goals {
		// Ensure that the goal is within the proper bounds
		if g.Row < 0 || g.Row >= r {
			return nil, fmt.Errorf("newGoal: goals[%d] row %d outside "+
				"[0, %d)", i, g.Row, r)
		} else if g.Col < 0 || g.Col >= c {
			return nil, fmt.Errorf("newGoal: goals[%d] col %d outside "+
				"[0, %d)", i, g.Col, c)
		}
	}

	stored := make([]environment.State, len(goals))
	copy(stored, goals)
	return &Goal{stored, r, c, tr, gr}, nil
}

// GetReward returns the reward for taking action a in state s. The
// goal reward is returned when the action enters a goal cell.
func (g *Goal) GetReward(s environment.State, a environment.Action) float64 {
	if g.IsTerminal(g.next(s, a)) {
		return g.goalReward
	}
	return g.timeStepReward
}

// IsTerminal returns whether s is a goal state
func (g *Goal) IsTerminal(s environment.State) bool {
	for _, goal := range g.goals {
		if goal == s {
			return true
		}
	}
	return false
}

// Goals returns the goal states
func (g *Goal) Goals() []environment.State {
	goals := make([]environment.State, len(g.goals))
	copy(goals, g.goals)
	return goals
}

// Dims returns the grid dimensions the Goal was built for
func (g *Goal) Dims() (r, c int) {
	return g.r, g.c
}

// String returns the Goal as a string
func (g *Goal) String() string {
	return fmt.Sprintf("%v", g.goals)
}

// Min returns the minimum reward attainable in the Task
func (g *Goal) Min() float64 {
	rewards := []float64{g.timeStepReward, g.goalReward}
	return floats.Min(rewards)
}

// Max returns the maximum reward attainable in the Task
func (g *Goal) Max() float64 {
	rewards := []float64{g.timeStepReward, g.goalReward}
	return floats.Max(rewards)
}

// next moves s in direction a, clipping at the grid boundaries
func (g *Goal) next(s environment.State, a environment.Action) environment.State {
	return environment.Clip(s.Move(a), g.r, g.c)
}

// nearest returns the Manhattan distance from s to the closest goal
func (g *Goal) nearest(s environment.State) int {
	best := math.MaxInt32
	for _, goal := range g.goals {
		if d := s.Manhattan(goal); d < best {
			best = d
		}
	}
	return best
}

// goalMatrix returns the (row, col) coordinates of each goal, one goal
// per row
func (g *Goal) goalMatrix() *mat.Dense {
	coords := make([]float64, 0, 2*len(g.goals))
	for _, goal := range g.goals {
		coords = append(coords, float64(goal.Row), float64(goal.Col))
	}
	return mat.NewDense(len(g.goals), 2, coords)
}
