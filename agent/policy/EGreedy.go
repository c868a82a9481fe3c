// Package policy implements ε-greedy and softmax action selection
// over the estimates of an agent.Estimator
package policy

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/gridrl/agent"
	"github.com/samuelfneumann/gridrl/environment"
	"github.com/samuelfneumann/gridrl/utils/floatutils"
	"github.com/samuelfneumann/gridrl/utils/matutils"
)

// EGreedy implements an ε-greedy policy. With probability ε a uniformly
// random action is taken, otherwise the action with the largest
// estimate. Ties between largest estimates go to the action that comes
// first in the enumeration.
type EGreedy struct {
	actions environment.Actions
	source  rand.Source // Seed for random number generation
}

// NewEGreedy constructs a new EGreedy policy over actions
func NewEGreedy(actions environment.Actions, seed uint64) (*EGreedy, error) {
	if err := actions.Validate(); err != nil {
		return nil, fmt.Errorf("newEGreedy: %v", err)
	}
	return &EGreedy{actions, rand.NewSource(seed)}, nil
}

// Type returns the type of the policy
func (p *EGreedy) Type() agent.PolicyType {
	return agent.EGreedy
}

// SelectAction selects an action from an ε-greedy policy, with ε taken
// from ctx
func (p *EGreedy) SelectAction(ctx agent.Context, s environment.State,
	est agent.Estimator) agent.Selection {
	numActions := p.actions.Len()
	values := checkEstimate(est.Estimate(s), numActions)

	// Find the greedy action
	greedyAction := matutils.MaxVec(mat.NewVecDense(numActions, values))

	// Calculate the ε probability of choosing any action at random
	epsilon := floatutils.Clip(ctx.Epsilon, 0.0, 1.0)
	prob := epsilon / float64(numActions)
	actionProbabilites := make([]float64, numActions)
	for i := 0; i < numActions; i++ {
		actionProbabilites[i] = prob
	}

	// Adjust the probability of choosing the greedy action
	actionProbabilites[greedyAction] += (1.0 - epsilon)

	index := greedyAction
	if epsilon > 0 {
		// Construct a categorical distribution over actions using
		// action probabilities
		dist := distuv.NewCategorical(actionProbabilites, p.source)
		index = int(dist.Rand())
	}

	return agent.Selection{
		Action: p.actions.At(index),
		Values: values,
		Probs:  actionProbabilites,
	}
}

// checkEstimate panics if an estimate does not have one entry per
// action and returns a copy of it otherwise
func checkEstimate(values []float64, numActions int) []float64 {
	if len(values) != numActions {
		panic(fmt.Sprintf("selectAction: illegal estimate length "+
			"\n\twant(%v)\n\thave(%v)", numActions, len(values)))
	}
	out := make([]float64, numActions)
	copy(out, values)
	return out
}
