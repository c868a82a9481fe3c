// Package pg implements a Monte Carlo policy gradient brain over a
// function approximator that outputs action probabilities
package pg

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/samuelfneumann/gridrl/agent"
	"github.com/samuelfneumann/gridrl/brain"
	"github.com/samuelfneumann/gridrl/buffer/episode"
	"github.com/samuelfneumann/gridrl/environment"
	"github.com/samuelfneumann/gridrl/network"
	"github.com/samuelfneumann/gridrl/utils/matutils"
)

// ErrEmptyEpisode is returned when updating from a trajectory with no
// transitions
var ErrEmptyEpisode = errors.New("update: empty episode")

// minStdDev is the smallest return standard deviation that returns are
// divided by
const minStdDev = 1e-8

// Observer maps states to the observations fed to the approximator
type Observer interface {
	Observation(s environment.State) *mat.Dense
}

// REINFORCE implements Monte Carlo policy gradient in output space.
// For each step t of an episode, with returns G standardized by their
// standard deviation, the approximator is fit towards
//
//	target_t = output_t + α G_t (onehot(a_t) - π(⋅|s_t))
//
// with a single batch fit over every step of the episode.
type REINFORCE struct {
	actions  environment.Actions
	obs      Observer
	approx   network.Approximator
	lr       float64
	discount float64
}

// New returns a new REINFORCE brain. The approximator must output one
// probability per action.
func New(actions environment.Actions, obs Observer,
	approx network.Approximator, lr, discount float64) (*REINFORCE, error) {
	if err := actions.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	if approx.Outputs() != actions.Len() {
		return nil, fmt.Errorf("new: approximator has %v outputs but there "+
			"are %v actions", approx.Outputs(), actions.Len())
	}
	if lr <= 0 {
		return nil, fmt.Errorf("new: learning rate must be positive")
	}
	if discount < 0 || discount > 1 {
		return nil, fmt.Errorf("new: discount must be in [0, 1]")
	}

	return &REINFORCE{
		actions:  actions,
		obs:      obs,
		approx:   approx,
		lr:       lr,
		discount: discount,
	}, nil
}

// features returns the flattened observation of s as a 1×F matrix
func (r *REINFORCE) features(s environment.State) []float64 {
	return matutils.Flatten(r.obs.Observation(s))
}

// Estimate returns the action probabilities of s
func (r *REINFORCE) Estimate(s environment.State) []float64 {
	x := r.features(s)
	pred, err := r.approx.Predict(mat.NewDense(1, len(x), x))
	if err != nil {
		panic(fmt.Sprintf("estimate: %v", err))
	}
	return mat.Row(nil, 0, pred)
}

// Mode returns brain.PerEpisode
func (r *REINFORCE) Mode() brain.UpdateMode {
	return brain.PerEpisode
}

// Outputs returns agent.Probabilities
func (r *REINFORCE) Outputs() agent.OutputKind {
	return agent.Probabilities
}

// Update fits the approximator once towards the policy gradient
// targets of every step in t. The probabilities recorded with each
// transition are used for the gradient if present.
func (r *REINFORCE) Update(t brain.Trajectory,
	_ environment.Environment) error {
	n := t.Len()
	if n == 0 {
		return ErrEmptyEpisode
	}

	rewards := make([]float64, n)
	inputs := make([][]float64, n)
	for i := 0; i < n; i++ {
		step := t.At(i)
		rewards[i] = step.Reward
		inputs[i] = r.features(step.State)
	}

	x, err := matutils.RowsOf(inputs)
	if err != nil {
		return fmt.Errorf("update: %v", err)
	}
	outputs, err := r.approx.Predict(x)
	if err != nil {
		return fmt.Errorf("update: %v", err)
	}

	returns := Standardize(episode.DiscountedReturns(rewards, r.discount))

	targets := mat.NewDense(n, r.actions.Len(), nil)
	for i := 0; i < n; i++ {
		step := t.At(i)
		if _, ok := r.actions.Index(step.Action); !ok {
			return fmt.Errorf("update: action %v not in action set",
				step.Action)
		}

		output := mat.Row(nil, i, outputs)
		probs := step.Probs
		if len(probs) != len(output) {
			probs = output
		}

		grad := r.actions.OneHot(step.Action)
		floats.Sub(grad, probs)

		floats.AddScaled(output, r.lr*returns[i], grad)
		targets.SetRow(i, output)
	}

	if err := r.approx.Fit(x, targets); err != nil {
		return fmt.Errorf("update: %v", err)
	}
	return nil
}

// Standardize divides returns in place by their population standard
// deviation and returns them. Returns whose standard deviation is
// (near) zero are left unscaled.
func Standardize(returns []float64) []float64 {
	std := PopStdDev(returns)
	if std < minStdDev {
		return returns
	}
	floats.Scale(1/std, returns)
	return returns
}

// PopStdDev returns the population standard deviation of x
func PopStdDev(x []float64) float64 {
	n := float64(len(x))
	if n < 2 {
		return 0
	}
	return math.Sqrt(stat.Variance(x, nil) * (n - 1) / n)
}

// Save saves the approximator to path
func (r *REINFORCE) Save(path string) error {
	return r.approx.Save(path)
}

// Load loads the approximator from path
func (r *REINFORCE) Load(path string) error {
	return r.approx.Load(path)
}
