package environment

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// CategoricalStarter returns starting states sampled uniformly from
// the cells of an r x c grid that are not excluded
type CategoricalStarter struct {
	r, c int
	rand distuv.Categorical
}

// NewCategoricalStarter returns a new CategoricalStarter over an r x c
// grid. Cells for which exclude returns true are never sampled; pass
// a Task's IsTerminal to draw random non-terminal cells.
func NewCategoricalStarter(r, c int, exclude func(State) bool,
	seed uint64) (*CategoricalStarter, error) {
	if r <= 0 || c <= 0 {
		return nil, fmt.Errorf("newCategoricalStarter: grid (%d, %d) must "+
			"have positive dimensions", r, c)
	}

	weights := make([]float64, r*c)
	valid := 0
	for i := range weights {
		s := State{i / c, i % c}
		if exclude != nil && exclude(s) {
			continue
		}
		weights[i] = 1.0
		valid++
	}
	if valid == 0 {
		return nil, fmt.Errorf("newCategoricalStarter: every cell is excluded")
	}

	source := rand.NewSource(seed)
	return &CategoricalStarter{r, c, distuv.NewCategorical(weights, source)}, nil
}

// StartingState returns a starting state
func (s *CategoricalStarter) StartingState() State {
	i := int(s.rand.Rand())
	return State{i / s.c, i % s.c}
}

// FixedStarter always starts at the same State
type FixedStarter State

// StartingState returns the fixed starting state
func (f FixedStarter) StartingState() State {
	return State(f)
}
