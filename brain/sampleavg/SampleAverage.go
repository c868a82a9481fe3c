// Package sampleavg implements an every-visit Monte Carlo control
// brain that estimates action values as sample averages of observed
// returns
package sampleavg

import (
	"fmt"

	"github.com/samuelfneumann/gridrl/agent"
	"github.com/samuelfneumann/gridrl/brain"
	"github.com/samuelfneumann/gridrl/brain/table"
	"github.com/samuelfneumann/gridrl/buffer/episode"
	"github.com/samuelfneumann/gridrl/environment"
)

func init() {
	brain.Register(brain.SampleAveraging, Config{})
}

// Config implements a configuration for a SampleAverage brain
type Config struct {
	// Discount applied to the return-to-go. Returns are undiscounted
	// when Discount is nil.
	Discount *float64

	// Initial value of unvisited state-action pairs
	Initial float64
}

// Validate checks a Config for errors
func (c Config) Validate() error {
	if d := c.Discount; d != nil && (*d < 0 || *d > 1) {
		return fmt.Errorf("validate: discount must be in [0, 1], got %v", *d)
	}
	return nil
}

// Type returns the brain type of the Config
func (c Config) Type() brain.Type {
	return brain.SampleAveraging
}

// Create creates a new SampleAverage brain for env
func (c Config) Create(env environment.Environment, _ uint64) (brain.Brain,
	error) {
	b, err := New(env.Actions(), c)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// SampleAverage estimates each action value as the mean of every return
// observed after taking that action in that state. Every occurrence of
// a state-action pair in an episode contributes a sample.
type SampleAverage struct {
	actions  environment.Actions
	q        *table.Table
	n        *table.Table
	discount float64
}

// New returns a new SampleAverage brain
func New(actions environment.Actions, c Config) (*SampleAverage, error) {
	if err := actions.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	discount := 1.0
	if c.Discount != nil {
		discount = *c.Discount
	}

	return &SampleAverage{
		actions:  actions,
		q:        table.New(actions.Len(), c.Initial),
		n:        table.New(actions.Len(), 0),
		discount: discount,
	}, nil
}

// Estimate returns the action values of s
func (s *SampleAverage) Estimate(st environment.State) []float64 {
	return s.q.Row(st)
}

// Count returns the number of samples averaged into the value of
// action a in state st
func (s *SampleAverage) Count(st environment.State, a environment.Action) int {
	return int(s.n.At(st, s.actions.MustIndex(a)))
}

// Mode returns brain.PerEpisode
func (s *SampleAverage) Mode() brain.UpdateMode {
	return brain.PerEpisode
}

// Outputs returns agent.Values
func (s *SampleAverage) Outputs() agent.OutputKind {
	return agent.Values
}

// Update folds the return-to-go of every step of t into the running
// average of its state-action pair. Empty trajectories are ignored.
func (s *SampleAverage) Update(t brain.Trajectory,
	_ environment.Environment) error {
	if t.Len() == 0 {
		return nil
	}

	rewards := make([]float64, t.Len())
	for i := range rewards {
		rewards[i] = t.At(i).Reward
	}
	returns := episode.DiscountedReturns(rewards, s.discount)

	for i := 0; i < t.Len(); i++ {
		step := t.At(i)
		a, ok := s.actions.Index(step.Action)
		if !ok {
			return fmt.Errorf("update: action %v not in action set",
				step.Action)
		}

		s.n.Add(step.State, a, 1)
		n := s.n.At(step.State, a)
		q := s.q.At(step.State, a)
		s.q.Set(step.State, a, q+(returns[i]-q)/n)
	}
	return nil
}

// Save saves the value and count tables to path
func (s *SampleAverage) Save(path string) error {
	return table.Save(path, s.q, s.n)
}

// Load loads the value and count tables from path
func (s *SampleAverage) Load(path string) error {
	q, n := table.New(1, 0), table.New(1, 0)
	if err := table.Load(path, q, n); err != nil {
		return err
	}
	if q.Actions() != s.actions.Len() || n.Actions() != s.actions.Len() {
		return fmt.Errorf("load: saved brain has %v actions, expected %v",
			q.Actions(), s.actions.Len())
	}
	s.q, s.n = q, n
	return nil
}
