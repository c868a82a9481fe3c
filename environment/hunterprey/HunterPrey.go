// Package hunterprey implements a hunter chasing a stationary prey on
// a square grid. The state seen by the learner is the position of the
// hunter relative to the prey, so a single value table generalizes
// over every prey position.
package hunterprey

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/gridrl/environment"
)

// Origin is the relative state in which the hunter has caught the prey
var Origin = environment.State{}

// HunterPrey is an n x n grid holding a hunter and a prey. States are
// hunter - prey offsets in [-(n-1), n-1] along each axis.
//
// StartingState places a new prey each episode. The first episode also
// places the hunter at random; afterwards the hunter starts on the
// cell where it caught the previous prey.
type HunterPrey struct {
	n       int
	actions environment.Actions

	stepReward    float64
	captureReward float64

	hunter  environment.State
	prey    environment.State
	started bool
	cells   distuv.Categorical
}

// New returns a new HunterPrey environment on an n x n grid
func New(n int, stepReward, captureReward float64,
	actions environment.Actions, seed uint64) (*HunterPrey, error) {
	if n < 2 {
		return nil, fmt.Errorf("new: grid size must be at least 2, have %d", n)
	}
	if err := actions.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	source := rand.NewSource(seed)
	weights := make([]float64, n*n)
	for i := range weights {
		weights[i] = 1.0
	}

	h := &HunterPrey{
		n:             n,
		actions:       actions,
		stepReward:    stepReward,
		captureReward: captureReward,
		cells:         distuv.NewCategorical(weights, source),
	}
	return h, nil
}

// Size returns the side length of the global grid
func (h *HunterPrey) Size() int {
	return h.n
}

// Actions returns the action enumeration of the environment
func (h *HunterPrey) Actions() environment.Actions {
	return h.actions
}

// StartingState draws a new prey position and returns the hunter's
// position relative to it. The returned state is never terminal.
func (h *HunterPrey) StartingState() environment.State {
	if !h.started {
		h.hunter = h.sampleCell()
		h.started = true
	} else {
		// The hunter sits on the previous prey's cell
		h.hunter = h.prey
	}

	prey := h.sampleCell()
	for prey == h.hunter {
		prey = h.sampleCell()
	}
	h.prey = prey

	return h.relative(h.hunter)
}

// Prey returns the global position of the current prey
func (h *HunterPrey) Prey() environment.State {
	return h.prey
}

// Global returns the global hunter position for relative state s
func (h *HunterPrey) Global(s environment.State) environment.State {
	return environment.State{Row: h.prey.Row + s.Row, Col: h.prey.Col + s.Col}
}

// IsTerminal returns whether the hunter has reached the prey
func (h *HunterPrey) IsTerminal(s environment.State) bool {
	return s == Origin
}

// GetReward returns the capture reward if action a moves the hunter
// onto the prey and the step reward otherwise
func (h *HunterPrey) GetReward(s environment.State, a environment.Action) float64 {
	if h.IsTerminal(h.next(s, a)) {
		return h.captureReward
	}
	return h.stepReward
}

// PerformAction moves the hunter. Moves that would take the hunter off
// the global grid leave it in place. PerformAction panics if s is
// terminal.
func (h *HunterPrey) PerformAction(s environment.State,
	a environment.Action) environment.State {
	if h.IsTerminal(s) {
		panic(fmt.Sprintf("performAction: action %v requested from "+
			"terminal state %v", a, s))
	}
	return h.next(s, a)
}

// Observation returns a (2n-1) x (2n-1) occupancy grid of the relative
// state, with the prey at the centre cell
func (h *HunterPrey) Observation(s environment.State) *mat.Dense {
	side := 2*h.n - 1
	obs := mat.NewDense(side, side, nil)
	obs.Set(s.Row+h.n-1, s.Col+h.n-1, 1.0)
	return obs
}

// ObservationSpec returns the specification of observations
func (h *HunterPrey) ObservationSpec() environment.Spec {
	side := 2*h.n - 1
	return environment.NewSpec(side, side, 0.0, 1.0, environment.Discrete)
}

// Optimal returns the number of moves needed to catch the prey from s
func (h *HunterPrey) Optimal(s environment.State) int {
	return s.Manhattan(Origin)
}

func (h *HunterPrey) next(s environment.State, a environment.Action) environment.State {
	global := environment.Clip(h.Global(s).Move(a), h.n, h.n)
	return h.relative(global)
}

func (h *HunterPrey) relative(global environment.State) environment.State {
	return environment.State{
		Row: global.Row - h.prey.Row,
		Col: global.Col - h.prey.Col,
	}
}

func (h *HunterPrey) sampleCell() environment.State {
	i := int(h.cells.Rand())
	return environment.State{Row: i / h.n, Col: i % h.n}
}

func (h *HunterPrey) String() string {
	return fmt.Sprintf("HunterPrey | Hunter: %v  |  Prey: %v  |  Size: %d",
		h.hunter, h.prey, h.n)
}
