package tracker

import (
	"fmt"

	"github.com/samuelfneumann/gridrl/timestep"
)

// Return tracks and saves the episodic return in an experiment. The
// return of an episode is the undiscounted sum of the rewards of its
// transitions.
//
// Note: An episode must finish for this Tracker to save its data.
// If the last episode in an experiment does not finish, that episode's
// return will not be saved.
type Return struct {
	lastTimeStep   int
	currentReturn  float64
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new *Return Tracker
func NewReturn(filename string) *Return {
	return &Return{lastTimeStep: -1, filename: filename}
}

// Track tracks the reward of a transition. When the transition is the
// last of its episode, the accumulated return is cached and tracking
// starts over for the next episode.
//
// Track panics if it is called for non-sequential transitions
func (r *Return) Track(step timestep.Transition) {
	if r.lastTimeStep+1 != step.Number {
		msg := fmt.Sprintf("track: last two transitions tracked are not "+
			"sequential: step %v --> step %v were tracked",
			r.lastTimeStep, step.Number)
		panic(msg)
	}

	r.currentReturn += step.Reward
	if !step.Last() {
		r.lastTimeStep = step.Number
		return
	}

	r.episodeReturns = append(r.episodeReturns, r.currentReturn)
	r.currentReturn = 0.0
	r.lastTimeStep = -1
}

// Data returns the return of each finished episode
func (r *Return) Data() []float64 {
	return r.episodeReturns
}

// Save saves the data tracked by the Return Tracker to disk.
func (r *Return) Save() error {
	return save(r.filename, r.episodeReturns)
}
