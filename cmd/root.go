// Package cmd implements the gridrl command line interface
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/samuelfneumann/gridrl/config"
)

// NewRootCommand returns the gridrl command with its train and eval
// subcommands. Options are read from flags, from GRIDRL_ environment
// variables and from the file named by --config, in that order of
// precedence.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	cfg := config.Default()

	root := &cobra.Command{
		Use:   "gridrl",
		Short: "Tabular and policy-gradient RL on gridworlds",
		Long: `gridrl trains and evaluates reinforcement learning agents on
gridworld and hunter-prey environments.

A run trains for a number of episodes, then tests the greedy policy
with exploration disabled and prints it.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Config file (yaml, json or toml)")

	// Environment
	flags.String("environment", cfg.Environment, "Environment (gridworld, hunterprey)")
	flags.Int("rows", cfg.Rows, "Grid rows; side length of hunterprey grids")
	flags.Int("cols", cfg.Cols, "Grid columns")
	flags.Int("start-row", cfg.StartRow, "Start row")
	flags.Int("start-col", cfg.StartCol, "Start column")
	flags.Bool("random-start", cfg.RandomStart, "Start each episode in a random non-goal cell")
	flags.Int("goal-row", cfg.GoalRow, "Goal row")
	flags.Int("goal-col", cfg.GoalCol, "Goal column")
	flags.Float64("step-reward", cfg.StepReward, "Reward of each non-terminal step")
	flags.Float64("goal-reward", cfg.GoalReward, "Reward of entering the goal")
	flags.Bool("stay", cfg.Stay, "Allow the Stay action")

	// Brain
	flags.String("brain", cfg.Brain, "Brain (sampleaveraging, qlearning, policygradient)")
	flags.Bool("online-updates", cfg.OnlineUpdates, "Update Q-learning after every step")
	flags.Float64("discount", cfg.Discount, "Discount factor")
	flags.Float64("learning-rate", cfg.LearningRate, "Learning rate")
	flags.Float64("initial-value", cfg.InitialValue, "Value of unvisited state-action pairs")
	flags.IntSlice("hidden-sizes", cfg.HiddenSizes, "Hidden layer sizes of the policy network")
	flags.String("activation", cfg.Activation, "Hidden activation (relu, tanh, identity)")
	flags.String("optimizer", cfg.Optimizer, "Policy network optimizer (adam, vanilla, rmsprop)")
	flags.Float64("optimizer-step-size", cfg.OptimizerStepSize, "Policy network optimizer step size")
	flags.String("weight-init", cfg.WeightInit, "Policy network weight initializer")

	// Policy
	flags.String("policy-mode", cfg.PolicyMode, "Policy (epsilongreedy, softmax)")
	flags.Float64("epsilon", cfg.Epsilon, "Initial exploration rate")
	flags.Float64("epsilon-decay", cfg.EpsilonDecay, "Exponential decay rate of epsilon")

	// Episodes
	flags.Int("episodes", cfg.Episodes, "Training episodes")
	flags.Int("test-episodes", cfg.TestEpisodes, "Test episodes")
	flags.Int("max-test-steps", cfg.MaxTestSteps, "Step cap of each test episode")
	flags.Uint64("seed", cfg.Seed, "Random seed")

	// Output
	flags.String("save-path", cfg.SavePath, "Path of the saved brain")
	flags.Int("checkpoint-every", cfg.CheckpointEvery, "Save the brain every n training episodes (0 disables)")
	flags.Bool("keep-checkpoints", cfg.KeepCheckpoints, "Number checkpoints instead of overwriting save-path")
	flags.String("returns-path", cfg.ReturnsPath, "Path of the saved episode returns")
	flags.String("lengths-path", cfg.LengthsPath, "Path of the saved episode lengths")
	flags.String("chart-path", cfg.ChartPath, "Path of the HTML learning curve chart")
	flags.Int("report-every", cfg.ReportEvery, "Log every n training episodes")
	flags.Bool("progress", cfg.Progress, "Show a live progress line")
	flags.Bool("colour", cfg.Colour, "Colour the printed policy")

	// Logging
	flags.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	// Bind flags to viper for environment variable support
	bindFlags(v, flags)
	v.SetEnvPrefix("GRIDRL")
	v.AutomaticEnv()

	root.AddCommand(newTrainCommand(v), newEvalCommand(v))
	return root
}

// bindFlags binds each flag to the viper key of the same name with
// dashes replaced by underscores
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Lookup is non-nil for every visited flag
		_ = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
}

// Execute runs the gridrl command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger returns the logger of a run. Every entry carries the run
// id so that the logs of concurrent runs can be told apart.
func newLogger(w io.Writer, level string) (zerolog.Logger, string, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Logger{}, "", fmt.Errorf("newLogger: %v", err)
	}

	runID := uuid.NewString()
	logger := zerolog.New(w).Level(lvl).With().Timestamp().
		Str("run", runID).Logger()
	return logger, runID, nil
}
