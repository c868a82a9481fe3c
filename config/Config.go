// Package config holds the options of a gridrl run and builds the
// environment, brain, schedule and agent that they describe
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/samuelfneumann/gridrl/agent"
	"github.com/samuelfneumann/gridrl/agent/policy"
	"github.com/samuelfneumann/gridrl/brain"
	"github.com/samuelfneumann/gridrl/brain/pg"
	"github.com/samuelfneumann/gridrl/brain/qlearning"
	"github.com/samuelfneumann/gridrl/brain/sampleavg"
	"github.com/samuelfneumann/gridrl/environment"
	"github.com/samuelfneumann/gridrl/environment/gridworld"
	"github.com/samuelfneumann/gridrl/environment/hunterprey"
	"github.com/samuelfneumann/gridrl/experiment"
)

// Environment names
const (
	GridWorld  = "gridworld"
	HunterPrey = "hunterprey"
)

// Config holds all options of a run
type Config struct {
	// Environment
	Environment string  `mapstructure:"environment"`
	Rows        int     `mapstructure:"rows"`
	Cols        int     `mapstructure:"cols"`
	StartRow    int     `mapstructure:"start_row"`
	StartCol    int     `mapstructure:"start_col"`
	RandomStart bool    `mapstructure:"random_start"`
	GoalRow     int     `mapstructure:"goal_row"`
	GoalCol     int     `mapstructure:"goal_col"`
	StepReward  float64 `mapstructure:"step_reward"`
	GoalReward  float64 `mapstructure:"goal_reward"`
	Stay        bool    `mapstructure:"stay"`

	// Brain
	Brain         string  `mapstructure:"brain"`
	OnlineUpdates bool    `mapstructure:"online_updates"`
	Discount      float64 `mapstructure:"discount"`
	LearningRate  float64 `mapstructure:"learning_rate"`
	InitialValue  float64 `mapstructure:"initial_value"`

	// DiscountSet records that Discount was given explicitly. Sample
	// averaging uses undiscounted returns otherwise.
	DiscountSet bool `mapstructure:"-"`

	// Policy network, used by the policygradient brain only
	HiddenSizes       []int   `mapstructure:"hidden_sizes"`
	Activation        string  `mapstructure:"activation"`
	Optimizer         string  `mapstructure:"optimizer"`
	OptimizerStepSize float64 `mapstructure:"optimizer_step_size"`
	WeightInit        string  `mapstructure:"weight_init"`

	// Policy and exploration
	PolicyMode   string  `mapstructure:"policy_mode"`
	Epsilon      float64 `mapstructure:"epsilon"`
	EpsilonDecay float64 `mapstructure:"epsilon_decay"`

	// Episodes
	Episodes     int    `mapstructure:"episodes"`
	TestEpisodes int    `mapstructure:"test_episodes"`
	MaxTestSteps int    `mapstructure:"max_test_steps"`
	Seed         uint64 `mapstructure:"seed"`

	// Output
	SavePath        string `mapstructure:"save_path"`
	CheckpointEvery int    `mapstructure:"checkpoint_every"`
	KeepCheckpoints bool   `mapstructure:"keep_checkpoints"`
	ReturnsPath     string `mapstructure:"returns_path"`
	LengthsPath     string `mapstructure:"lengths_path"`
	ChartPath       string `mapstructure:"chart_path"`
	ReportEvery     int    `mapstructure:"report_every"`
	Progress        bool   `mapstructure:"progress"`
	Colour          bool   `mapstructure:"colour"`

	// Logging
	LogLevel string `mapstructure:"log_level"`
}

// Default returns a config with sensible defaults
func Default() *Config {
	return &Config{
		Environment: GridWorld,
		Rows:        5,
		Cols:        5,
		GoalRow:     4,
		GoalCol:     4,
		StepReward:  -1,
		GoalReward:  10,

		Brain:        string(brain.QLearning),
		Discount:     0.9,
		LearningRate: 0.5,

		HiddenSizes:       []int{32},
		Activation:        "relu",
		Optimizer:         "adam",
		OptimizerStepSize: 0.01,
		WeightInit:        "glorotu",

		PolicyMode:   string(agent.EGreedy),
		Epsilon:      0.5,
		EpsilonDecay: agent.DecayToFraction(0.01, 1000),

		Episodes:     1000,
		TestEpisodes: 10,
		MaxTestSteps: 2000,
		Seed:         1,

		CheckpointEvery: 1,
		ReportEvery:     100,
		Colour:          true,

		LogLevel: "info",
	}
}

// Load returns the Config described by v on top of the defaults. If
// v holds a "config" key, the file it names is read first.
func Load(v *viper.Viper) (*Config, error) {
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("load: could not read config file: %v",
				err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load: could not decode config: %v", err)
	}
	cfg.DiscountSet = v.IsSet("discount")
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid. Names of the policy,
// brain and environment are checked here so that a bad name fails
// before anything is constructed.
func (c *Config) Validate() error {
	if _, err := agent.ParsePolicyType(c.PolicyMode); err != nil {
		return fmt.Errorf("policy_mode: %w", err)
	}
	if _, err := brain.ParseType(c.Brain); err != nil {
		return fmt.Errorf("brain: %v", err)
	}

	switch c.environmentName() {
	case GridWorld:
		if c.Rows <= 0 || c.Cols <= 0 {
			return fmt.Errorf("rows and cols must be positive")
		}
		if !c.inGrid(c.GoalRow, c.GoalCol) {
			return fmt.Errorf("goal (%d, %d) is outside the grid", c.GoalRow,
				c.GoalCol)
		}
		if !c.RandomStart {
			if !c.inGrid(c.StartRow, c.StartCol) {
				return fmt.Errorf("start (%d, %d) is outside the grid",
					c.StartRow, c.StartCol)
			}
			if c.StartRow == c.GoalRow && c.StartCol == c.GoalCol {
				return fmt.Errorf("start cannot be the goal cell")
			}
		}
	case HunterPrey:
		if c.Rows < 2 {
			return fmt.Errorf("rows must be at least 2 for %v", HunterPrey)
		}
	default:
		return fmt.Errorf("environment: unknown environment %q (want %q "+
			"or %q)", c.Environment, GridWorld, HunterPrey)
	}

	if c.Episodes < 0 || c.TestEpisodes < 0 {
		return fmt.Errorf("episodes and test_episodes must be non-negative")
	}
	if c.TestEpisodes > 0 && c.MaxTestSteps <= 0 {
		return fmt.Errorf("max_test_steps must be positive")
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("epsilon must be in [0, 1]")
	}
	if c.EpsilonDecay < 0 {
		return fmt.Errorf("epsilon_decay must be non-negative")
	}
	if c.CheckpointEvery < 0 {
		return fmt.Errorf("checkpoint_every must be non-negative")
	}
	return nil
}

func (c *Config) environmentName() string {
	return strings.ToLower(strings.TrimSpace(c.Environment))
}

func (c *Config) inGrid(row, col int) bool {
	return row >= 0 && row < c.Rows && col >= 0 && col < c.Cols
}

// Actions returns the action enumeration shared by the environment,
// the policy and the brain
func (c *Config) Actions() environment.Actions {
	if c.Stay {
		return environment.CardinalWithStay()
	}
	return environment.Cardinal()
}

// NewEnvironment creates the environment of the run. Hunter-prey grids
// are square with Rows cells per side.
func (c *Config) NewEnvironment() (environment.Environment, error) {
	switch c.environmentName() {
	case GridWorld:
		goal := environment.State{Row: c.GoalRow, Col: c.GoalCol}
		task, err := gridworld.NewGoal([]environment.State{goal}, c.Rows,
			c.Cols, c.StepReward, c.GoalReward)
		if err != nil {
			return nil, fmt.Errorf("newEnvironment: %v", err)
		}

		var starter environment.Starter
		if c.RandomStart {
			starter, err = gridworld.NewRandomStart(task, c.Seed)
		} else {
			starter, err = gridworld.NewFixedStart(c.StartRow, c.StartCol,
				c.Rows, c.Cols)
		}
		if err != nil {
			return nil, fmt.Errorf("newEnvironment: %v", err)
		}

		env, err := gridworld.New(c.Rows, c.Cols, task, starter, c.Actions())
		if err != nil {
			return nil, fmt.Errorf("newEnvironment: %v", err)
		}
		return env, nil

	case HunterPrey:
		env, err := hunterprey.New(c.Rows, c.StepReward, c.GoalReward,
			c.Actions(), c.Seed)
		if err != nil {
			return nil, fmt.Errorf("newEnvironment: %v", err)
		}
		return env, nil
	}
	return nil, fmt.Errorf("newEnvironment: unknown environment %q",
		c.Environment)
}

// BrainConfig returns the brain.Config described by c
func (c *Config) BrainConfig() (brain.Config, error) {
	t, err := brain.ParseType(c.Brain)
	if err != nil {
		return nil, fmt.Errorf("brainConfig: %v", err)
	}

	var bc brain.Config
	switch t {
	case brain.SampleAveraging:
		sc := sampleavg.Config{Initial: c.InitialValue}
		if c.DiscountSet {
			discount := c.Discount
			sc.Discount = &discount
		}
		bc = sc
	case brain.QLearning:
		bc = qlearning.Config{
			LearningRate: c.LearningRate,
			Discount:     c.Discount,
			Online:       c.OnlineUpdates,
			Initial:      c.InitialValue,
		}
	case brain.PolicyGradient:
		bc = pg.Config{
			LearningRate: c.LearningRate,
			Discount:     c.Discount,
			HiddenSizes:  c.HiddenSizes,
			Activation:   c.Activation,
			Solver:       c.Optimizer,
			StepSize:     c.OptimizerStepSize,
			Init:         c.WeightInit,
		}
	default:
		return nil, fmt.Errorf("brainConfig: no options for brain %q", t)
	}

	if err := bc.Validate(); err != nil {
		return nil, fmt.Errorf("brainConfig: %v", err)
	}
	return bc, nil
}

// NewBrain creates the brain of the run for env
func (c *Config) NewBrain(env environment.Environment) (brain.Brain, error) {
	bc, err := c.BrainConfig()
	if err != nil {
		return nil, fmt.Errorf("newBrain: %v", err)
	}
	b, err := bc.Create(env, c.Seed+1)
	if err != nil {
		return nil, fmt.Errorf("newBrain: %v", err)
	}
	return b, nil
}

// NewSchedule returns the exploration schedule of the run
func (c *Config) NewSchedule() (agent.Schedule, error) {
	s, err := agent.NewExponentialDecay(c.Epsilon, c.EpsilonDecay,
		c.Episodes)
	if err != nil {
		return nil, fmt.Errorf("newSchedule: %v", err)
	}
	return s, nil
}

// NewAgent creates the agent of the run. The policy reads the kind of
// output that b estimates.
func (c *Config) NewAgent(b brain.Brain) (*agent.Agent, error) {
	t, err := agent.ParsePolicyType(c.PolicyMode)
	if err != nil {
		return nil, fmt.Errorf("newAgent: %w", err)
	}

	actions := c.Actions()
	p, err := policy.New(t, actions, b.Outputs(), c.Seed+2)
	if err != nil {
		return nil, fmt.Errorf("newAgent: %w", err)
	}

	a, err := agent.New(p, actions)
	if err != nil {
		return nil, fmt.Errorf("newAgent: %v", err)
	}
	return a, nil
}

// Trainer returns the episode configuration of an experiment.Trainer
func (c *Config) Trainer() experiment.Config {
	return experiment.Config{
		Episodes:     c.Episodes,
		TestEpisodes: c.TestEpisodes,
		MaxTestSteps: c.MaxTestSteps,
		ReportEvery:  c.ReportEvery,
	}
}
