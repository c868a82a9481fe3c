package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/samuelfneumann/gridrl/agent"
	"github.com/samuelfneumann/gridrl/brain"
	"github.com/samuelfneumann/gridrl/config"
	"github.com/samuelfneumann/gridrl/environment"
	"github.com/samuelfneumann/gridrl/environment/hunterprey"
	"github.com/samuelfneumann/gridrl/experiment"
	"github.com/samuelfneumann/gridrl/experiment/checkpointer"
	"github.com/samuelfneumann/gridrl/experiment/report"
	"github.com/samuelfneumann/gridrl/experiment/tracker"
)

func newTrainCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train an agent, then test and print its greedy policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return train(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

// run holds everything built from a Config
type run struct {
	env      environment.Environment
	brain    brain.Brain
	agent    *agent.Agent
	schedule agent.Schedule
	logger   zerolog.Logger
	id       string
}

func build(cfg *config.Config, logs io.Writer) (*run, error) {
	logger, id, err := newLogger(logs, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	env, err := cfg.NewEnvironment()
	if err != nil {
		return nil, err
	}
	b, err := cfg.NewBrain(env)
	if err != nil {
		return nil, err
	}
	a, err := cfg.NewAgent(b)
	if err != nil {
		return nil, err
	}
	schedule, err := cfg.NewSchedule()
	if err != nil {
		return nil, err
	}

	return &run{
		env:      env,
		brain:    b,
		agent:    a,
		schedule: schedule,
		logger:   logger,
		id:       id,
	}, nil
}

func train(ctx context.Context, cfg *config.Config, out,
	logs io.Writer) error {
	r, err := build(cfg, logs)
	if err != nil {
		return err
	}
	r.logger.Info().
		Str("environment", cfg.Environment).
		Str("brain", cfg.Brain).
		Str("policy", cfg.PolicyMode).
		Int("episodes", cfg.Episodes).
		Uint64("seed", cfg.Seed).
		Msg("starting run")

	trainer, err := experiment.New(r.env, r.agent, r.brain, r.schedule,
		cfg.Trainer(), r.logger)
	if err != nil {
		return err
	}

	returns := tracker.NewReturn(cfg.ReturnsPath)
	lengths := tracker.NewEpisodeLength(cfg.LengthsPath)
	trainer.Register(returns)
	trainer.Register(lengths)

	if cfg.SavePath != "" && cfg.CheckpointEvery > 0 {
		filename := checkpointer.Fixed(cfg.SavePath)
		if cfg.KeepCheckpoints {
			filename = checkpointer.Numbered(cfg.SavePath)
		}
		c, err := checkpointer.NewNStep(cfg.CheckpointEvery, r.brain,
			filename)
		if err != nil {
			return err
		}
		trainer.SetCheckpointer(c)
	}

	if cfg.Progress {
		trainer.SetProgress(experiment.NewLive())
	}

	_, runErr := trainer.Run(ctx)

	// Whatever was tracked is written out even when the run failed
	if err := saveOutputs(cfg, r, returns, lengths); err != nil {
		r.logger.Error().Err(err).Msg("could not save outputs")
		if runErr == nil {
			runErr = err
		}
	}

	if runErr != nil {
		return runErr
	}

	if err := printPolicy(out, cfg, r.env, r.brain); err != nil {
		return err
	}
	r.logger.Info().Msg("run finished")
	return nil
}

// saveOutputs writes the final brain to the save path, next to any
// numbered checkpoints, and the tracked data to their paths
func saveOutputs(cfg *config.Config, r *run, returns *tracker.Return,
	lengths *tracker.EpisodeLength) error {
	if cfg.SavePath != "" {
		if err := r.brain.Save(cfg.SavePath); err != nil {
			return err
		}
	}
	if cfg.ReturnsPath != "" {
		if err := returns.Save(); err != nil {
			return err
		}
	}
	if cfg.LengthsPath != "" {
		if err := lengths.Save(); err != nil {
			return err
		}
	}
	if cfg.ChartPath != "" {
		err := report.Chart(cfg.ChartPath, "gridrl "+r.id,
			report.Series{Name: "return", Values: returns.Data()},
			report.Series{Name: "episode length", Values: lengths.Data()},
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// printPolicy writes the greedy policy of est over every state of env
func printPolicy(w io.Writer, cfg *config.Config,
	env environment.Environment, est agent.Estimator) error {
	var cells [][]environment.State
	if h, ok := env.(*hunterprey.HunterPrey); ok {
		// Relative positions span [-(n-1), n-1] on both axes
		n := h.Size()
		cells = report.Grid(2*n-1, 2*n-1, -(n - 1), -(n - 1))
	} else {
		cells = report.Grid(cfg.Rows, cfg.Cols, 0, 0)
	}
	return report.Policy(w, cells, env, est, cfg.Colour)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context,
	context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
