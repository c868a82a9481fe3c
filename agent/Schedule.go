package agent

import (
	"fmt"
	"math"
)

// Schedule determines the exploration parameter ε of each episode. A
// Schedule is a pure function of the episode index: ε is recomputed
// from the index every episode, never updated in place.
type Schedule interface {
	Epsilon(episode int) float64

	// Horizon returns the number of training episodes. ε is exactly
	// 0 for every episode at or past the horizon.
	Horizon() int
}

// ExponentialDecay decays ε as Initial * exp(-Rate * episode) over
// the first Episodes episodes and returns 0 afterwards. A Rate of 0
// keeps ε constant during training.
type ExponentialDecay struct {
	Initial  float64
	Rate     float64
	Episodes int
}

// NewExponentialDecay returns a new ExponentialDecay schedule
func NewExponentialDecay(initial, rate float64,
	episodes int) (ExponentialDecay, error) {
	if initial < 0 || initial > 1 {
		return ExponentialDecay{}, fmt.Errorf("newExponentialDecay: "+
			"epsilon must be in [0, 1], have %v", initial)
	}
	if rate < 0 {
		return ExponentialDecay{}, fmt.Errorf("newExponentialDecay: "+
			"decay rate cannot be negative, have %v", rate)
	}
	if episodes < 0 {
		return ExponentialDecay{}, fmt.Errorf("newExponentialDecay: "+
			"episodes cannot be negative, have %v", episodes)
	}
	return ExponentialDecay{initial, rate, episodes}, nil
}

// Epsilon returns ε for episode
func (e ExponentialDecay) Epsilon(episode int) float64 {
	if episode >= e.Episodes || episode < 0 {
		return 0.0
	}
	return e.Initial * math.Exp(-e.Rate*float64(episode))
}

// Horizon returns the number of training episodes
func (e ExponentialDecay) Horizon() int {
	return e.Episodes
}

// DecayToFraction returns the rate at which ε decays to frac of its
// initial value after episodes episodes. A fraction of 0.01 gives the
// 2 ln(10) / episodes rate.
func DecayToFraction(frac float64, episodes int) float64 {
	if episodes <= 0 || frac <= 0 {
		return 0
	}
	return -math.Log(frac) / float64(episodes)
}
