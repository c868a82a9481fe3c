package policy

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/samuelfneumann/gridrl/agent"
	"github.com/samuelfneumann/gridrl/environment"
)

// Softmax samples actions from the categorical distribution given by
// an estimator's output. Values are passed through a softmax with
// temperature 1; Probabilities are used as given. Either way the
// distribution is renormalized before sampling so that numerical drift
// in the estimator never produces an invalid distribution.
type Softmax struct {
	actions environment.Actions
	kind    agent.OutputKind
	source  rand.Source
}

// NewSoftmax returns a new Softmax policy over actions reading
// estimator output of the given kind
func NewSoftmax(actions environment.Actions, kind agent.OutputKind,
	seed uint64) (*Softmax, error) {
	if err := actions.Validate(); err != nil {
		return nil, fmt.Errorf("newSoftmax: %v", err)
	}
	return &Softmax{actions, kind, rand.NewSource(seed)}, nil
}

// Type returns the type of the policy
func (p *Softmax) Type() agent.PolicyType {
	return agent.Softmax
}

// SelectAction samples an action. The exploration parameter of ctx is
// not used.
func (p *Softmax) SelectAction(_ agent.Context, s environment.State,
	est agent.Estimator) agent.Selection {
	values := checkEstimate(est.Estimate(s), p.actions.Len())

	var probs []float64
	if p.kind == agent.Values {
		probs = Probabilities(values)
	} else {
		probs = make([]float64, len(values))
		copy(probs, values)
		Normalize(probs)
	}

	index, ok := sampleuv.NewWeighted(probs, p.source).Take()
	if !ok {
		panic("selectAction: could not sample from action distribution")
	}

	return agent.Selection{
		Action: p.actions.At(index),
		Values: values,
		Probs:  probs,
	}
}

// Probabilities returns the softmax of logits
func Probabilities(logits []float64) []float64 {
	max := floats.Max(logits)
	probs := make([]float64, len(logits))
	for i, l := range logits {
		probs[i] = math.Exp(l - max)
	}
	Normalize(probs)
	return probs
}

// Normalize rescales probs in place to sum to 1. Negative and NaN
// entries are treated as 0; if nothing positive remains, probs becomes
// uniform.
func Normalize(probs []float64) {
	for i, p := range probs {
		if p < 0 || math.IsNaN(p) {
			probs[i] = 0
		}
	}

	sum := floats.Sum(probs)
	if sum <= 0 || math.IsInf(sum, 0) {
		for i := range probs {
			probs[i] = 1.0 / float64(len(probs))
		}
		return
	}
	floats.Scale(1/sum, probs)
}
