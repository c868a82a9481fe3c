// Package experiment implements the training loop that runs an agent
// and its brain through episodes of an environment
package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/samuelfneumann/gridrl/agent"
	"github.com/samuelfneumann/gridrl/brain"
	"github.com/samuelfneumann/gridrl/buffer/episode"
	"github.com/samuelfneumann/gridrl/environment"
	"github.com/samuelfneumann/gridrl/experiment/checkpointer"
	"github.com/samuelfneumann/gridrl/experiment/tracker"
	"github.com/samuelfneumann/gridrl/timestep"
)

// ErrBadPolicy is returned when a test episode exceeds its step cap
// without reaching a terminal state
var ErrBadPolicy = errors.New("bad policy: test episode did not reach a " +
	"terminal state")

// Config describes the episodes run by a Trainer
type Config struct {
	// Episodes is the number of training episodes
	Episodes int

	// TestEpisodes are run after training with exploration disabled
	// and without updating the brain
	TestEpisodes int

	// MaxTestSteps caps the length of each test episode
	MaxTestSteps int

	// ReportEvery logs every ReportEvery'th training episode. Test
	// episodes are always logged. Values below 1 log every twentieth
	// of the training episodes.
	ReportEvery int
}

// Validate checks a Config for errors
func (c Config) Validate() error {
	if c.Episodes < 0 || c.TestEpisodes < 0 {
		return fmt.Errorf("validate: episode counts must be non-negative")
	}
	if c.TestEpisodes > 0 && c.MaxTestSteps <= 0 {
		return fmt.Errorf("validate: max test steps must be positive")
	}
	return nil
}

// Result summarizes a single episode
type Result struct {
	Episode  int
	Training bool
	Steps    int
	Return   float64
	Epsilon  float64

	// Optimal is the least number of steps from the starting state to
	// a terminal state
	Optimal int

	// UpdateErrors counts the brain updates of the episode that failed
	UpdateErrors int
}

// Mode returns the phase of the episode
func (r Result) Mode() string {
	if r.Training {
		return "train"
	}
	return "test"
}

// Trainer runs episodes of an environment, recording each in an
// episode.Memory and updating a brain at the boundaries its
// brain.UpdateMode asks for.
type Trainer struct {
	env      environment.Environment
	agent    *agent.Agent
	brain    brain.Brain
	schedule agent.Schedule
	memory   *episode.Memory
	config   Config

	trackers     []tracker.Tracker
	checkpointer checkpointer.Checkpointer
	progress     Progress
	logger       zerolog.Logger
}

// New returns a new Trainer. The schedule's horizon should equal the
// number of training episodes.
func New(env environment.Environment, a *agent.Agent, b brain.Brain,
	schedule agent.Schedule, c Config, logger zerolog.Logger) (*Trainer,
	error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	return &Trainer{
		env:      env,
		agent:    a,
		brain:    b,
		schedule: schedule,
		memory:   episode.New(),
		config:   c,
		progress: nopProgress{},
		logger:   logger,
	}, nil
}

// Register registers a tracker.Tracker with the Trainer so that data
// generated during training can be tracked and saved
func (t *Trainer) Register(tr tracker.Tracker) {
	t.trackers = append(t.trackers, tr)
}

// SetCheckpointer sets the checkpointer called after every training
// episode
func (t *Trainer) SetCheckpointer(c checkpointer.Checkpointer) {
	t.checkpointer = c
}

// SetProgress sets the live progress display
func (t *Trainer) SetProgress(p Progress) {
	t.progress = p
}

// Memory returns the episode memory of the Trainer
func (t *Trainer) Memory() *episode.Memory {
	return t.memory
}

// Run runs every training episode followed by every test episode and
// returns the result of each. Run stops at the first error, returning
// the results so far; a test episode that exceeds its step cap returns
// an error wrapping ErrBadPolicy.
//
// A failed brain update does not stop the run. It is logged and
// counted in Result.UpdateErrors, and the episode's run counters are
// kept.
func (t *Trainer) Run(ctx context.Context) ([]Result, error) {
	t.memory.ResetRunCounters()
	t.progress.Start()
	defer t.progress.Stop()

	total := t.config.Episodes + t.config.TestEpisodes
	results := make([]Result, 0, total)
	updateErrors := 0

	for ep := 0; ep < total; ep++ {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		actx := agent.NewContext(ep, t.schedule)
		if ep >= t.config.Episodes {
			actx.Training = false
			actx.Epsilon = 0
		}

		maxSteps := 0
		if !actx.Training {
			maxSteps = t.config.MaxTestSteps
		}

		result, err := t.RunEpisode(actx, maxSteps)
		if err != nil {
			t.logger.Error().Err(err).Int("episode", ep).
				Str("mode", result.Mode()).Int("steps", result.Steps).
				Msg("episode failed")
			return results, err
		}
		results = append(results, result)

		if actx.Training && t.checkpointer != nil {
			if err := t.checkpointer.Checkpoint(ep); err != nil {
				return results, fmt.Errorf("run: could not checkpoint "+
					"episode %v: %v", ep, err)
			}
		}

		t.report(result)
		t.progress.Update(result, total)
		updateErrors += result.UpdateErrors
	}

	counters := t.memory.RunCounters()
	t.logger.Info().Int("episodes", counters.Episodes).
		Int("steps", counters.Steps).
		Float64("mean_return", counters.MeanReward()).
		Int("update_errors", updateErrors).
		Msg("run finished")

	return results, nil
}

// RunEpisode runs a single episode under the context actx. Episodes
// run until a terminal state is reached; if maxSteps is positive and
// the episode is still running after maxSteps steps, an error wrapping
// ErrBadPolicy is returned.
//
// The transition into the terminal state is recorded with type
// timestep.Last; the terminal state is never recorded as a state.
func (t *Trainer) RunEpisode(actx agent.Context, maxSteps int) (Result,
	error) {
	defer t.memory.Clear()

	result := Result{
		Episode:  actx.Episode,
		Training: actx.Training,
		Epsilon:  actx.Epsilon,
	}
	update := actx.Training

	s := t.env.StartingState()
	result.Optimal = t.env.Optimal(s)
	for !t.env.IsTerminal(s) {
		if maxSteps > 0 && result.Steps >= maxSteps {
			return result, fmt.Errorf("runEpisode: episode %v exceeded %v "+
				"steps: %w", actx.Episode, maxSteps, ErrBadPolicy)
		}

		sel := t.agent.GetAction(actx, s, t.brain, t.env)
		reward := t.env.GetReward(s, sel.Action)
		next := t.env.PerformAction(s, sel.Action)

		stepType := timestep.Mid
		if t.env.IsTerminal(next) {
			stepType = timestep.Last
		} else if result.Steps == 0 {
			stepType = timestep.First
		}

		step := timestep.New(stepType, s, sel.Action, reward, next,
			sel.Values, sel.Probs, result.Steps)
		t.memory.Append(step)
		for _, tr := range t.trackers {
			tr.Track(step)
		}

		if update && t.brain.Mode() == brain.PerStep {
			t.update(&result)
		}

		result.Steps++
		result.Return += reward
		s = next
	}

	t.memory.UpdateRunCounters()

	if update && t.brain.Mode() == brain.PerEpisode {
		t.update(&result)
	}
	return result, nil
}

// update updates the brain from the episode so far, logging and
// counting a failure in r
func (t *Trainer) update(r *Result) {
	if err := t.brain.Update(t.memory, t.env); err != nil {
		r.UpdateErrors++
		t.logger.Error().Err(err).Int("episode", r.Episode).
			Int("step", t.memory.Len()).Msg("brain update failed")
	}
}

// report logs the result of an episode
func (t *Trainer) report(r Result) {
	every := t.config.ReportEvery
	if every < 1 {
		every = t.config.Episodes / 20
	}
	if every < 1 {
		every = 1
	}
	if r.Training && (r.Episode+1)%every != 0 {
		return
	}

	event := t.logger.Info().
		Int("episode", r.Episode).
		Str("mode", r.Mode()).
		Int("iter", r.Steps)
	if t.agent.Type() == agent.EGreedy {
		event = event.Float64("epsilon", r.Epsilon)
	}
	event.Float64("reward", r.Return).
		Int("n_optimal", r.Optimal).
		Msg("episode")
}
