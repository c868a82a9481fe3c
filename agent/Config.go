package agent

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPolicyType is returned when a policy mode is not recognized
var ErrUnknownPolicyType = errors.New("unknown policy mode")

// PolicyType represents a type of distribution that a policy could be
type PolicyType string

const (
	EGreedy PolicyType = "epsilongreedy"
	Softmax PolicyType = "softmax"
)

// ParsePolicyType returns the PolicyType named by s, ignoring case
func ParsePolicyType(s string) (PolicyType, error) {
	switch t := PolicyType(strings.ToLower(strings.TrimSpace(s))); t {
	case EGreedy, Softmax:
		return t, nil
	}
	return "", fmt.Errorf("parsePolicyType: %w %q (want %q or %q)",
		ErrUnknownPolicyType, s, EGreedy, Softmax)
}
