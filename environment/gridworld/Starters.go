package gridworld

import (
	"fmt"

	"github.com/samuelfneumann/gridrl/environment"
)

// NewFixedStart returns a Starter that always starts at (row, col) in
// a grid of r rows and c columns
func NewFixedStart(row, col, r, c int) (environment.Starter, error) {
	if row < 0 || row >= r {
		return nil, fmt.Errorf("newFixedStart: row = %d outside [0, %d)", row, r)
	} else if col < 0 || col >= c {
		return nil, fmt.Errorf("newFixedStart: col = %d outside [0, %d)", col, c)
	}

	return environment.FixedStarter{Row: row, Col: col}, nil
}

// NewRandomStart returns a Starter that samples uniformly among the
// non-goal cells of the grid
func NewRandomStart(task *Goal, seed uint64) (environment.Starter, error) {
	r, c := task.Dims()
	starter, err := environment.NewCategoricalStarter(r, c, task.IsTerminal,
		seed)
	if err != nil {
		return nil, fmt.Errorf("newRandomStart: %v", err)
	}
	return starter, nil
}
