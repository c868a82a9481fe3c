package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/gridrl/agent"
	"github.com/samuelfneumann/gridrl/brain"
	"github.com/samuelfneumann/gridrl/brain/qlearning"
	"github.com/samuelfneumann/gridrl/brain/sampleavg"
	"github.com/samuelfneumann/gridrl/environment"
	"github.com/samuelfneumann/gridrl/environment/gridworld"
	"github.com/samuelfneumann/gridrl/environment/hunterprey"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"policy mode", func(c *Config) { c.PolicyMode = "boltzmann" }},
		{"brain", func(c *Config) { c.Brain = "sarsa" }},
		{"environment", func(c *Config) { c.Environment = "cliffworld" }},
		{"rows", func(c *Config) { c.Rows = 0 }},
		{"goal", func(c *Config) { c.GoalCol = 5 }},
		{"start", func(c *Config) { c.StartRow = -1 }},
		{"start on goal", func(c *Config) { c.StartRow, c.StartCol = 4, 4 }},
		{"hunter prey size", func(c *Config) {
			c.Environment = HunterPrey
			c.Rows = 1
		}},
		{"episodes", func(c *Config) { c.Episodes = -1 }},
		{"max test steps", func(c *Config) { c.MaxTestSteps = 0 }},
		{"epsilon", func(c *Config) { c.Epsilon = 1.5 }},
		{"epsilon decay", func(c *Config) { c.EpsilonDecay = -1 }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := Default()
			test.modify(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestValidateUnknownPolicyMode(t *testing.T) {
	c := Default()
	c.PolicyMode = "greedy"
	err := c.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, agent.ErrUnknownPolicyType))
}

func TestRandomStartSkipsStartChecks(t *testing.T) {
	c := Default()
	c.RandomStart = true
	c.StartRow, c.StartCol = c.GoalRow, c.GoalCol
	assert.NoError(t, c.Validate())
}

func TestLoadFromViper(t *testing.T) {
	v := viper.New()
	v.Set("episodes", 20)
	v.Set("brain", "SampleAveraging")
	v.Set("hidden_sizes", []int{8, 8})

	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 20, c.Episodes)
	assert.Equal(t, "SampleAveraging", c.Brain)
	assert.Equal(t, []int{8, 8}, c.HiddenSizes)

	// Untouched options keep their defaults
	assert.Equal(t, Default().MaxTestSteps, c.MaxTestSteps)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := []byte("environment: hunterprey\nrows: 4\npolicy_mode: softmax\n" +
		"step_reward: -0.1\ngoal_reward: 100\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	v := viper.New()
	v.Set("config", path)

	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, HunterPrey, c.Environment)
	assert.Equal(t, 4, c.Rows)
	assert.Equal(t, "softmax", c.PolicyMode)
	assert.Equal(t, -0.1, c.StepReward)
}

func TestLoadRejectsInvalid(t *testing.T) {
	v := viper.New()
	v.Set("policy_mode", "nope")

	_, err := Load(v)
	require.Error(t, err)
	assert.True(t, errors.Is(err, agent.ErrUnknownPolicyType))
}

func TestNewEnvironment(t *testing.T) {
	c := Default()
	env, err := c.NewEnvironment()
	require.NoError(t, err)
	g, ok := env.(*gridworld.GridWorld)
	require.True(t, ok)
	r, col := g.Dims()
	assert.Equal(t, 5, r)
	assert.Equal(t, 5, col)
	assert.Equal(t, environment.State{}, env.StartingState())
	assert.True(t, env.IsTerminal(environment.State{Row: 4, Col: 4}))

	c.RandomStart = true
	env, err = c.NewEnvironment()
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		assert.False(t, env.IsTerminal(env.StartingState()))
	}

	c = Default()
	c.Environment = HunterPrey
	c.Stay = true
	env, err = c.NewEnvironment()
	require.NoError(t, err)
	h, ok := env.(*hunterprey.HunterPrey)
	require.True(t, ok)
	assert.Equal(t, 5, h.Size())
	assert.Equal(t, 5, env.Actions().Len())
}

func TestBuildRun(t *testing.T) {
	for _, name := range []string{"sampleaveraging", "qlearning",
		"policygradient"} {
		t.Run(name, func(t *testing.T) {
			c := Default()
			c.Brain = name
			c.HiddenSizes = []int{4}

			env, err := c.NewEnvironment()
			require.NoError(t, err)
			b, err := c.NewBrain(env)
			require.NoError(t, err)
			a, err := c.NewAgent(b)
			require.NoError(t, err)
			assert.Equal(t, env.Actions(), a.Actions())

			s, err := c.NewSchedule()
			require.NoError(t, err)
			assert.Equal(t, c.Episodes, s.Horizon())
			assert.Equal(t, c.Epsilon, s.Epsilon(0))
		})
	}
}

func TestBrainConfig(t *testing.T) {
	c := Default()
	c.OnlineUpdates = true
	bc, err := c.BrainConfig()
	require.NoError(t, err)
	assert.Equal(t, brain.QLearning, bc.Type())

	q, ok := bc.(qlearning.Config)
	require.True(t, ok)
	assert.True(t, q.Online)
	assert.Equal(t, c.LearningRate, q.LearningRate)

	c.LearningRate = 2
	_, err = c.BrainConfig()
	assert.Error(t, err)
}

func TestSampleAveragingIsUndiscountedByDefault(t *testing.T) {
	v := viper.New()
	v.Set("brain", "sampleaveraging")
	c, err := Load(v)
	require.NoError(t, err)
	assert.False(t, c.DiscountSet)

	bc, err := c.BrainConfig()
	require.NoError(t, err)
	sc, ok := bc.(sampleavg.Config)
	require.True(t, ok)
	assert.Nil(t, sc.Discount)

	// Q-learning keeps the shared default
	c.Brain = "qlearning"
	bc, err = c.BrainConfig()
	require.NoError(t, err)
	assert.Equal(t, 0.9, bc.(qlearning.Config).Discount)
}

func TestSampleAveragingAcceptsZeroDiscount(t *testing.T) {
	v := viper.New()
	v.Set("brain", "sampleaveraging")
	v.Set("discount", 0.0)
	c, err := Load(v)
	require.NoError(t, err)
	assert.True(t, c.DiscountSet)

	bc, err := c.BrainConfig()
	require.NoError(t, err)
	sc := bc.(sampleavg.Config)
	require.NotNil(t, sc.Discount)
	assert.Equal(t, 0.0, *sc.Discount)
}

func TestTrainerConfig(t *testing.T) {
	c := Default()
	tc := c.Trainer()
	assert.Equal(t, c.Episodes, tc.Episodes)
	assert.Equal(t, c.TestEpisodes, tc.TestEpisodes)
	assert.Equal(t, c.MaxTestSteps, tc.MaxTestSteps)
	assert.NoError(t, tc.Validate())
}
