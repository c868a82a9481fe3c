package qlearning

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/gridrl/brain"
	"github.com/samuelfneumann/gridrl/buffer/episode"
	"github.com/samuelfneumann/gridrl/environment"
	"github.com/samuelfneumann/gridrl/environment/gridworld"
	"github.com/samuelfneumann/gridrl/timestep"
)

// chain returns a 1x2 gridworld whose goal is at (0, 1) with a step
// reward of -1 and a goal reward of 10
func chain(t *testing.T) *gridworld.GridWorld {
	goal, err := gridworld.NewGoal([]environment.State{{Row: 0, Col: 1}},
		1, 2, -1, 10)
	require.NoError(t, err)
	starter, err := gridworld.NewFixedStart(0, 0, 1, 2)
	require.NoError(t, err)
	g, err := gridworld.New(1, 2, goal, starter, environment.Cardinal())
	require.NoError(t, err)
	return g
}

func step(env environment.Environment, s environment.State,
	a environment.Action, n int) timestep.Transition {
	next := env.PerformAction(s, a)
	stepType := timestep.Mid
	if env.IsTerminal(next) {
		stepType = timestep.Last
	}
	return timestep.New(stepType, s, a, env.GetReward(s, a), next, nil, nil, n)
}

func TestTerminalUpdateIgnoresBootstrap(t *testing.T) {
	env := chain(t)
	b, err := New(env.Actions(), Config{LearningRate: 0.5, Discount: 0.9})
	require.NoError(t, err)

	s := environment.State{}
	m := episode.New()

	old := 0.0
	for i := 0; i < 3; i++ {
		m.Clear()
		m.Append(step(env, s, environment.Right, 0))
		require.NoError(t, b.Update(m, env))

		want := old + 0.5*(10-old)
		assert.InDelta(t, want, b.Estimate(s)[1], 1e-12)
		old = want
	}
}

func TestBatchedTargetsUseValuesBeforeEpisode(t *testing.T) {
	env := chain(t)
	b, err := New(env.Actions(), Config{LearningRate: 1, Discount: 1})
	require.NoError(t, err)

	s := environment.State{}
	m := episode.New()
	m.Append(step(env, s, environment.Left, 0))
	m.Append(step(env, s, environment.Right, 1))
	require.NoError(t, b.Update(m, env))

	// The Left target was computed while Q((0,0), ⋅) was all zero
	assert.InDelta(t, -1.0, b.Estimate(s)[0], 1e-12)
	assert.InDelta(t, 10.0, b.Estimate(s)[1], 1e-12)
}

func TestOnlineUpdatesLastTransitionOnly(t *testing.T) {
	env := chain(t)
	b, err := New(env.Actions(), Config{
		LearningRate: 1,
		Discount:     1,
		Online:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, brain.PerStep, b.Mode())

	s := environment.State{}
	m := episode.New()
	m.Append(step(env, s, environment.Left, 0))
	require.NoError(t, b.Update(m, env))
	assert.InDelta(t, -1.0, b.Estimate(s)[0], 1e-12)

	m.Append(step(env, s, environment.Right, 1))
	require.NoError(t, b.Update(m, env))
	assert.InDelta(t, -1.0, b.Estimate(s)[0], 1e-12)
	assert.InDelta(t, 10.0, b.Estimate(s)[1], 1e-12)
}

func TestEmptyTrajectoryIsNoop(t *testing.T) {
	env := chain(t)
	b, err := New(env.Actions(), Config{LearningRate: 0.1, Discount: 0.9})
	require.NoError(t, err)

	require.NoError(t, b.Update(episode.New(), env))
	assert.Equal(t, []float64{0, 0, 0, 0}, b.Estimate(environment.State{}))
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{LearningRate: 0, Discount: 0.5}.Validate())
	assert.Error(t, Config{LearningRate: 1.5, Discount: 0.5}.Validate())
	assert.Error(t, Config{LearningRate: 0.5, Discount: -1}.Validate())
	assert.NoError(t, Config{LearningRate: 0.5, Discount: 1}.Validate())
}

func TestSaveLoad(t *testing.T) {
	env := chain(t)
	b, err := New(env.Actions(), Config{LearningRate: 0.8, Discount: 0.9})
	require.NoError(t, err)

	m := episode.New()
	m.Append(step(env, environment.State{}, environment.Right, 0))
	require.NoError(t, b.Update(m, env))

	path := filepath.Join(t.TempDir(), "q.gob")
	require.NoError(t, b.Save(path))

	loaded, err := New(env.Actions(), Config{LearningRate: 0.8, Discount: 0.9})
	require.NoError(t, err)
	require.NoError(t, loaded.Load(path))
	assert.Equal(t, b.Estimate(environment.State{}),
		loaded.Estimate(environment.State{}))
}
