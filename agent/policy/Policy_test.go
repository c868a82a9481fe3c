package policy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/gridrl/agent"
	"github.com/samuelfneumann/gridrl/environment"
)

// constant is an agent.Estimator returning the same estimate for
// every state
type constant []float64

func (c constant) Estimate(environment.State) []float64 {
	return c
}

func TestEGreedyBreaksTiesByFirstIndex(t *testing.T) {
	p, err := NewEGreedy(environment.Cardinal(), 1)
	require.NoError(t, err)

	ctx := agent.Context{Epsilon: 0}
	for i := 0; i < 20; i++ {
		sel := p.SelectAction(ctx, environment.State{}, constant{0, 3, 3, 1})
		assert.Equal(t, environment.Right, sel.Action)
		assert.Equal(t, []float64{0, 1, 0, 0}, sel.Probs)
		assert.Equal(t, []float64{0, 3, 3, 1}, sel.Values)
	}
}

func TestEGreedyProbabilities(t *testing.T) {
	p, err := NewEGreedy(environment.Cardinal(), 1)
	require.NoError(t, err)

	sel := p.SelectAction(agent.Context{Epsilon: 0.4}, environment.State{},
		constant{0, 0, 5, 0})
	assert.InDeltaSlice(t, []float64{0.1, 0.1, 0.7, 0.1}, sel.Probs, 1e-12)
}

func TestEGreedyExploresWithFullEpsilon(t *testing.T) {
	p, err := NewEGreedy(environment.Cardinal(), 5)
	require.NoError(t, err)

	counts := make(map[environment.Action]int)
	for i := 0; i < 4000; i++ {
		sel := p.SelectAction(agent.Context{Epsilon: 1}, environment.State{},
			constant{0, 0, 5, 0})
		counts[sel.Action]++
	}
	for _, a := range environment.Cardinal() {
		assert.InDelta(t, 1000, counts[a], 150, "action %v", a)
	}
}

func TestEGreedySeedReproducible(t *testing.T) {
	run := func() []environment.Action {
		p, err := NewEGreedy(environment.Cardinal(), 99)
		require.NoError(t, err)
		out := make([]environment.Action, 50)
		for i := range out {
			out[i] = p.SelectAction(agent.Context{Epsilon: 0.7},
				environment.State{}, constant{1, 2, 3, 4}).Action
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestSelectActionPanicsOnWrongEstimateLength(t *testing.T) {
	p, err := NewEGreedy(environment.Cardinal(), 1)
	require.NoError(t, err)

	assert.Panics(t, func() {
		p.SelectAction(agent.Context{}, environment.State{}, constant{1, 2})
	})
}

func TestSoftmaxRenormalizesProbabilities(t *testing.T) {
	p, err := NewSoftmax(environment.Cardinal(), agent.Probabilities, 3)
	require.NoError(t, err)

	sel := p.SelectAction(agent.Context{}, environment.State{},
		constant{0.2, 0.2, 0.2, 0.2})
	assert.InDeltaSlice(t, []float64{0.25, 0.25, 0.25, 0.25}, sel.Probs, 1e-12)

	sel = p.SelectAction(agent.Context{}, environment.State{},
		constant{0, 0, 1.0000001, -1e-9})
	assert.Equal(t, environment.Up, sel.Action)
	assert.InDelta(t, 1.0, sel.Probs[0]+sel.Probs[1]+sel.Probs[2]+sel.Probs[3],
		1e-12)
}

func TestSoftmaxOverValues(t *testing.T) {
	p, err := NewSoftmax(environment.Cardinal(), agent.Values, 3)
	require.NoError(t, err)

	sel := p.SelectAction(agent.Context{}, environment.State{},
		constant{0, math.Log(3), 0, 0})
	assert.InDeltaSlice(t, []float64{1.0 / 6, 3.0 / 6, 1.0 / 6, 1.0 / 6},
		sel.Probs, 1e-12)
}

func TestSoftmaxSamplesProportionally(t *testing.T) {
	p, err := NewSoftmax(environment.Cardinal(), agent.Probabilities, 11)
	require.NoError(t, err)

	counts := make(map[environment.Action]int)
	for i := 0; i < 4000; i++ {
		sel := p.SelectAction(agent.Context{}, environment.State{},
			constant{0.5, 0.5, 0, 0})
		counts[sel.Action]++
	}
	assert.Zero(t, counts[environment.Up])
	assert.Zero(t, counts[environment.Down])
	assert.InDelta(t, 2000, counts[environment.Left], 200)
}

func TestNormalizeDegenerate(t *testing.T) {
	probs := []float64{0, math.NaN(), -1}
	Normalize(probs)
	assert.InDeltaSlice(t, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, probs, 1e-12)
}

func TestNewRejectsUnknownType(t *testing.T) {
	_, err := New(agent.PolicyType("greedy"), environment.Cardinal(),
		agent.Values, 1)
	assert.ErrorIs(t, err, agent.ErrUnknownPolicyType)

	p, err := New(agent.Softmax, environment.Cardinal(), agent.Values, 1)
	require.NoError(t, err)
	assert.Equal(t, agent.Softmax, p.Type())
}
