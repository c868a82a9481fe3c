// Package qlearning implements a tabular Q-learning brain
package qlearning

import (
	"fmt"

	"github.com/samuelfneumann/gridrl/agent"
	"github.com/samuelfneumann/gridrl/brain"
	"github.com/samuelfneumann/gridrl/brain/table"
	"github.com/samuelfneumann/gridrl/environment"
)

func init() {
	brain.Register(brain.QLearning, Config{})
}

// Config implements a configuration for a QLearning brain
type Config struct {
	// LearningRate is the step size α, in (0, 1]
	LearningRate float64

	// Discount is the discount factor ℽ, in [0, 1]
	Discount float64

	// Online updates the table after every step from the latest
	// transition instead of once per episode
	Online bool

	// Initial value of unvisited state-action pairs
	Initial float64
}

// Validate checks a Config for errors
func (c Config) Validate() error {
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return fmt.Errorf("validate: learning rate must be in (0, 1], got "+
			"%v", c.LearningRate)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1], got %v",
			c.Discount)
	}
	return nil
}

// Type returns the brain type of the Config
func (c Config) Type() brain.Type {
	return brain.QLearning
}

// Create creates a new QLearning brain for env
func (c Config) Create(env environment.Environment, _ uint64) (brain.Brain,
	error) {
	b, err := New(env.Actions(), c)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// QLearning implements tabular Q-learning:
//
//	Q(s, a) ← Q(s, a) + α [r + ℽ max Q(s', ⋅) - Q(s, a)]
//
// with the bootstrap term dropped when s' is terminal.
type QLearning struct {
	actions  environment.Actions
	q        *table.Table
	alpha    float64
	discount float64
	online   bool
}

// New returns a new QLearning brain
func New(actions environment.Actions, c Config) (*QLearning, error) {
	if err := actions.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	return &QLearning{
		actions:  actions,
		q:        table.New(actions.Len(), c.Initial),
		alpha:    c.LearningRate,
		discount: c.Discount,
		online:   c.Online,
	}, nil
}

// Estimate returns the action values of s
func (q *QLearning) Estimate(s environment.State) []float64 {
	return q.q.Row(s)
}

// Mode returns brain.PerStep for online brains and brain.PerEpisode
// otherwise
func (q *QLearning) Mode() brain.UpdateMode {
	if q.online {
		return brain.PerStep
	}
	return brain.PerEpisode
}

// Outputs returns agent.Values
func (q *QLearning) Outputs() agent.OutputKind {
	return agent.Values
}

// Update updates the table from t. Online brains learn from the last
// transition only. Otherwise the target of every step is computed from
// the table as it was before the episode, and then all steps are
// applied in order. Empty trajectories are ignored.
func (q *QLearning) Update(t brain.Trajectory,
	env environment.Environment) error {
	if t.Len() == 0 {
		return nil
	}
	if q.online {
		return q.apply(t, env, t.Len()-1)
	}
	return q.apply(t, env, 0)
}

// apply updates the table with steps [from, t.Len()) of t
func (q *QLearning) apply(t brain.Trajectory, env environment.Environment,
	from int) error {
	n := t.Len() - from
	targets := make([]float64, n)
	indices := make([]int, n)

	for i := 0; i < n; i++ {
		step := t.At(from + i)
		a, ok := q.actions.Index(step.Action)
		if !ok {
			return fmt.Errorf("update: action %v not in action set",
				step.Action)
		}
		indices[i] = a

		maxNext := 0.0
		if !env.IsTerminal(step.NextState) {
			maxNext = q.q.Max(step.NextState)
		}
		targets[i] = step.Reward + q.discount*maxNext
	}

	for i := 0; i < n; i++ {
		s := t.At(from + i).State
		old := q.q.At(s, indices[i])
		q.q.Set(s, indices[i], old+q.alpha*(targets[i]-old))
	}
	return nil
}

// Save saves the action-value table to path
func (q *QLearning) Save(path string) error {
	return table.Save(path, q.q)
}

// Load loads the action-value table from path
func (q *QLearning) Load(path string) error {
	loaded := table.New(1, 0)
	if err := table.Load(path, loaded); err != nil {
		return err
	}
	if loaded.Actions() != q.actions.Len() {
		return fmt.Errorf("load: saved brain has %v actions, expected %v",
			loaded.Actions(), q.actions.Len())
	}
	q.q = loaded
	return nil
}
