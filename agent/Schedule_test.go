package agent

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExponentialDecayIsPure(t *testing.T) {
	s, err := NewExponentialDecay(1.0, DecayToFraction(0.01, 100), 100)
	require.NoError(t, err)

	for _, ep := range []int{0, 1, 17, 99} {
		assert.Equal(t, s.Epsilon(ep), s.Epsilon(ep))
	}

	// Evaluation order must not matter
	late := s.Epsilon(50)
	s.Epsilon(3)
	s.Epsilon(80)
	assert.Equal(t, late, s.Epsilon(50))
}

func TestExponentialDecayIsMonotone(t *testing.T) {
	s, err := NewExponentialDecay(0.8, 0.05, 200)
	require.NoError(t, err)

	prev := math.Inf(1)
	for ep := 0; ep < 300; ep++ {
		eps := s.Epsilon(ep)
		assert.LessOrEqual(t, eps, prev, "episode %d", ep)
		prev = eps
	}
}

func TestExponentialDecayZeroPastHorizon(t *testing.T) {
	s, err := NewExponentialDecay(0.5, 0, 10)
	require.NoError(t, err)

	assert.Equal(t, 0.5, s.Epsilon(0))
	assert.Equal(t, 0.5, s.Epsilon(9))
	assert.Equal(t, 0.0, s.Epsilon(10))
	assert.Equal(t, 0.0, s.Epsilon(1000))
}

func TestDecayToFraction(t *testing.T) {
	rate := DecayToFraction(0.01, 1000)
	assert.InDelta(t, 2.0*math.Log(10.0)/1000, rate, 1e-12)

	s := ExponentialDecay{Initial: 1, Rate: rate, Episodes: 2000}
	assert.InDelta(t, 0.01, s.Epsilon(1000), 1e-12)
}

func TestNewExponentialDecayValidates(t *testing.T) {
	_, err := NewExponentialDecay(1.5, 0, 10)
	assert.Error(t, err)
	_, err = NewExponentialDecay(0.5, -1, 10)
	assert.Error(t, err)
	_, err = NewExponentialDecay(0.5, 0, -1)
	assert.Error(t, err)
}

func TestNewContext(t *testing.T) {
	s := ExponentialDecay{Initial: 0.5, Episodes: 3}

	ctx := NewContext(2, s)
	assert.Equal(t, Context{Episode: 2, Epsilon: 0.5, Training: true}, ctx)

	ctx = NewContext(3, s)
	assert.Equal(t, Context{Episode: 3, Epsilon: 0, Training: false}, ctx)
}

func TestParsePolicyType(t *testing.T) {
	pt, err := ParsePolicyType("EpsilonGreedy")
	require.NoError(t, err)
	assert.Equal(t, EGreedy, pt)

	pt, err = ParsePolicyType(" softmax ")
	require.NoError(t, err)
	assert.Equal(t, Softmax, pt)

	_, err = ParsePolicyType("boltzmann")
	assert.ErrorIs(t, err, ErrUnknownPolicyType)
}
