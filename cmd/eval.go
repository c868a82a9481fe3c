package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/samuelfneumann/gridrl/agent"
	"github.com/samuelfneumann/gridrl/brain"
	"github.com/samuelfneumann/gridrl/config"
	"github.com/samuelfneumann/gridrl/experiment"
)

func newEvalCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "eval",
		Short: "Test a saved brain without updating it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return eval(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

// eval loads the brain saved at the configured save path and runs the
// test episodes only
func eval(ctx context.Context, cfg *config.Config, out,
	logs io.Writer) error {
	if cfg.SavePath == "" {
		return fmt.Errorf("eval: save_path is required")
	}
	if cfg.TestEpisodes == 0 {
		return fmt.Errorf("eval: test_episodes must be positive")
	}

	r, err := build(cfg, logs)
	if err != nil {
		return err
	}
	if err := r.brain.Load(cfg.SavePath); err != nil {
		return fmt.Errorf("eval: %v", err)
	}
	frozen := brain.Freeze(r.brain)

	schedule, err := agent.NewExponentialDecay(0, 0, 0)
	if err != nil {
		return err
	}
	trainer, err := experiment.New(r.env, r.agent, frozen, schedule,
		experiment.Config{
			TestEpisodes: cfg.TestEpisodes,
			MaxTestSteps: cfg.MaxTestSteps,
		}, r.logger)
	if err != nil {
		return err
	}

	results, err := trainer.Run(ctx)
	if err != nil {
		return err
	}

	var total float64
	for _, res := range results {
		total += res.Return
	}
	r.logger.Info().
		Int("episodes", len(results)).
		Float64("mean_return", total/float64(len(results))).
		Msg("evaluation finished")

	return printPolicy(out, cfg, r.env, frozen)
}
