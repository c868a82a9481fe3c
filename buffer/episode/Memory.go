// Package episode implements the buffer that records a single
// episode's trajectory, together with counters that accumulate over
// a whole run of episodes
package episode

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/samuelfneumann/gridrl/timestep"
)

// RunCounters are cumulative statistics over every episode since the
// last call to Memory.ResetRunCounters
type RunCounters struct {
	Episodes int
	Steps    int
	Reward   float64
}

// MeanReward returns the mean episodic reward of the run
func (r RunCounters) MeanReward() float64 {
	if r.Episodes == 0 {
		return 0
	}
	return r.Reward / float64(r.Episodes)
}

// Memory stores the transitions of the current episode. The episode
// buffer and the run counters have separate lifecycles: Clear empties
// the buffer and never touches the counters, which only change through
// UpdateRunCounters and ResetRunCounters.
//
// Append performs no validation of the trajectory; keeping the
// transitions connected is the caller's responsibility.
type Memory struct {
	transitions []timestep.Transition
	run         RunCounters
}

// New returns a new, empty Memory
func New() *Memory {
	return &Memory{}
}

// Append adds a transition to the end of the episode
func (m *Memory) Append(t timestep.Transition) {
	m.transitions = append(m.transitions, t)
}

// Clear empties the episode buffer. Slices returned by Transitions
// before the call keep the old episode.
func (m *Memory) Clear() {
	m.transitions = nil
}

// Len returns the number of transitions in the episode
func (m *Memory) Len() int {
	return len(m.transitions)
}

// At returns the transition at step i of the episode
func (m *Memory) At(i int) timestep.Transition {
	return m.transitions[i]
}

// Last returns the most recently appended transition
func (m *Memory) Last() (timestep.Transition, error) {
	if len(m.transitions) == 0 {
		return timestep.Transition{}, fmt.Errorf("last: memory is empty")
	}
	return m.transitions[len(m.transitions)-1], nil
}

// Transitions returns the transitions of the episode in order. The
// returned slice must not be modified.
func (m *Memory) Transitions() []timestep.Transition {
	return m.transitions
}

// Rewards returns the rewards of the episode in order
func (m *Memory) Rewards() []float64 {
	rewards := make([]float64, len(m.transitions))
	for i := range m.transitions {
		rewards[i] = m.transitions[i].Reward
	}
	return rewards
}

// Return returns the undiscounted sum of rewards of the episode
func (m *Memory) Return() float64 {
	return floats.Sum(m.Rewards())
}

// ResetRunCounters zeroes the run counters
func (m *Memory) ResetRunCounters() {
	m.run = RunCounters{}
}

// UpdateRunCounters adds the current episode to the run counters
func (m *Memory) UpdateRunCounters() {
	m.run.Episodes++
	m.run.Steps += len(m.transitions)
	m.run.Reward += m.Return()
}

// RunCounters returns the current run counters
func (m *Memory) RunCounters() RunCounters {
	return m.run
}

// DiscountedReturns computes the discounted return-to-go of every step
// with a single backward pass: G[T] = r[T] and G[t] = r[t] + ℽ G[t+1].
// Given rewards [r0 r1 ... rN] and discount ℽ, it returns:
//
// [
//	r0 + ℽ r1 + ℽ^2 r2 + ... + ℽ^N rN
//	r1 + ℽ r2 + ... + ℽ^(N-1) rN
// ...
//	rN
// ]
func DiscountedReturns(rewards []float64, discount float64) []float64 {
	returns := make([]float64, len(rewards))
	next := 0.0
	for t := len(rewards) - 1; t >= 0; t-- {
		next = rewards[t] + discount*next
		returns[t] = next
	}
	return returns
}
