package policy

import (
	"fmt"

	"github.com/samuelfneumann/gridrl/agent"
	"github.com/samuelfneumann/gridrl/environment"
)

// New returns the policy of type t over actions. Softmax policies read
// estimator output of the given kind.
func New(t agent.PolicyType, actions environment.Actions,
	kind agent.OutputKind, seed uint64) (agent.Policy, error) {
	var (
		p   agent.Policy
		err error
	)
	switch t {
	case agent.EGreedy:
		p, err = NewEGreedy(actions, seed)
	case agent.Softmax:
		p, err = NewSoftmax(actions, kind, seed)
	default:
		return nil, fmt.Errorf("new: %w %q", agent.ErrUnknownPolicyType, t)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
