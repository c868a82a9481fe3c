package report

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"

	"github.com/samuelfneumann/gridrl/agent"
	"github.com/samuelfneumann/gridrl/environment"
	"github.com/samuelfneumann/gridrl/utils/floatutils"
)

var arrows = map[environment.Action]string{
	environment.Left:  "←",
	environment.Right: "→",
	environment.Up:    "↑",
	environment.Down:  "↓",
	environment.Stay:  "·",
}

// Policy writes the greedy action of est in each state of cells, one
// line per row. Terminal states are marked G. Ties between actions
// are broken by the first action in the enumeration.
func Policy(w io.Writer, cells [][]environment.State,
	env environment.Environment, est agent.Estimator,
	colour bool) error {
	au := aurora.NewAurora(colour)
	actions := env.Actions()

	for _, row := range cells {
		for _, s := range row {
			var cell aurora.Value
			if env.IsTerminal(s) {
				cell = au.Green("G")
			} else {
				_, best := floatutils.MaxSlice(est.Estimate(s))
				cell = au.Blue(arrows[actions.At(best[0])])
			}
			if _, err := fmt.Fprintf(w, "%v ", cell); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// Grid returns the states of an r×c grid with the given row and column
// offsets, in row-major order
func Grid(r, c, rowOffset, colOffset int) [][]environment.State {
	cells := make([][]environment.State, r)
	for i := range cells {
		cells[i] = make([]environment.State, c)
		for j := range cells[i] {
			cells[i][j] = environment.State{
				Row: i + rowOffset,
				Col: j + colOffset,
			}
		}
	}
	return cells
}
