package pg

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gridrl/agent"
	"github.com/samuelfneumann/gridrl/brain"
	"github.com/samuelfneumann/gridrl/buffer/episode"
	"github.com/samuelfneumann/gridrl/environment"
	"github.com/samuelfneumann/gridrl/environment/gridworld"
	"github.com/samuelfneumann/gridrl/timestep"
)

// uniformApprox predicts a uniform distribution for every input and
// records the last batch it was fit to
type uniformApprox struct {
	outputs int
	x, y    *mat.Dense
	fits    int
}

func (u *uniformApprox) Predict(x *mat.Dense) (*mat.Dense, error) {
	r, _ := x.Dims()
	out := mat.NewDense(r, u.outputs, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < u.outputs; j++ {
			out.Set(i, j, 1/float64(u.outputs))
		}
	}
	return out, nil
}

func (u *uniformApprox) Fit(x, y *mat.Dense) error {
	u.x, u.y = x, y
	u.fits++
	return nil
}

func (u *uniformApprox) Outputs() int      { return u.outputs }
func (u *uniformApprox) Save(string) error { return nil }
func (u *uniformApprox) Load(string) error { return nil }

func newGrid(t *testing.T) *gridworld.GridWorld {
	goal, err := gridworld.NewGoal([]environment.State{{Row: 0, Col: 2}},
		1, 3, -1, 10)
	require.NoError(t, err)
	starter, err := gridworld.NewFixedStart(0, 0, 1, 3)
	require.NoError(t, err)
	g, err := gridworld.New(1, 3, goal, starter, environment.Cardinal())
	require.NoError(t, err)
	return g
}

func record(m *episode.Memory, env environment.Environment,
	actions ...environment.Action) {
	s := env.StartingState()
	uniform := []float64{0.25, 0.25, 0.25, 0.25}
	for i, a := range actions {
		next := env.PerformAction(s, a)
		stepType := timestep.Mid
		if env.IsTerminal(next) {
			stepType = timestep.Last
		}
		m.Append(timestep.New(stepType, s, a, env.GetReward(s, a), next,
			uniform, uniform, i))
		s = next
	}
}

func TestTargets(t *testing.T) {
	env := newGrid(t)
	approx := &uniformApprox{outputs: 4}
	b, err := New(env.Actions(), env, approx, 0.1, 1)
	require.NoError(t, err)

	m := episode.New()
	record(m, env, environment.Right, environment.Right)
	require.NoError(t, b.Update(m, env))
	require.Equal(t, 1, approx.fits)

	// Returns [9, 10] have standard deviation 0.5
	r, c := approx.y.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 4, c)
	assert.InDeltaSlice(t, []float64{-0.2, 1.6, -0.2, -0.2},
		mat.Row(nil, 0, approx.y), 1e-9)
	assert.InDeltaSlice(t, []float64{-0.25, 1.75, -0.25, -0.25},
		mat.Row(nil, 1, approx.y), 1e-9)

	// Inputs are the one-hot observations of the visited states
	assert.Equal(t, []float64{1, 0, 0}, mat.Row(nil, 0, approx.x))
	assert.Equal(t, []float64{0, 1, 0}, mat.Row(nil, 1, approx.x))
}

func TestZeroStdDevIsNotDivided(t *testing.T) {
	env := newGrid(t)
	approx := &uniformApprox{outputs: 4}
	b, err := New(env.Actions(), env, approx, 0.1, 0.9)
	require.NoError(t, err)

	m := episode.New()
	record(m, env, environment.Left)
	require.NoError(t, b.Update(m, env))

	row := mat.Row(nil, 0, approx.y)
	for _, v := range row {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
	assert.InDeltaSlice(t, []float64{0.175, 0.275, 0.275, 0.275}, row, 1e-9)
}

func TestEmptyEpisode(t *testing.T) {
	env := newGrid(t)
	b, err := New(env.Actions(), env, &uniformApprox{outputs: 4}, 0.1, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, b.Update(episode.New(), env), ErrEmptyEpisode)
}

func TestStandardize(t *testing.T) {
	assert.InDelta(t, math.Sqrt(1.25), PopStdDev([]float64{1, 2, 3, 4}),
		1e-12)
	assert.Equal(t, 0.0, PopStdDev([]float64{3}))

	assert.Equal(t, []float64{2, 2, 2}, Standardize([]float64{2, 2, 2}))
	got := Standardize([]float64{1, 3})
	assert.InDeltaSlice(t, []float64{1, 3}, got, 1e-12)
}

func TestNewRejectsMismatchedOutputs(t *testing.T) {
	env := newGrid(t)
	_, err := New(env.Actions(), env, &uniformApprox{outputs: 5}, 0.1, 1)
	assert.Error(t, err)
}

func TestConfigCreatesMLPBrain(t *testing.T) {
	env := newGrid(t)
	c := Config{
		LearningRate: 0.5,
		Discount:     0.9,
		HiddenSizes:  []int{8},
		StepSize:     0.01,
	}
	require.NoError(t, c.Validate())

	b, err := c.Create(env, 3)
	require.NoError(t, err)
	assert.Equal(t, brain.PerEpisode, b.Mode())
	assert.Equal(t, agent.Probabilities, b.Outputs())

	start := env.StartingState()
	probs := b.Estimate(start)
	require.Len(t, probs, 4)
	assert.InDelta(t, 1.0, floats.Sum(probs), 1e-9)

	m := episode.New()
	record(m, env, environment.Up, environment.Right, environment.Right)
	require.NoError(t, b.Update(m, env))

	path := filepath.Join(t.TempDir(), "pg.gob")
	require.NoError(t, b.Save(path))

	loaded, err := c.Create(env, 4)
	require.NoError(t, err)
	require.NoError(t, loaded.Load(path))
	assert.InDeltaSlice(t, b.Estimate(start), loaded.Estimate(start), 1e-12)
}

func TestConfigValidate(t *testing.T) {
	valid := Config{LearningRate: 0.1, Discount: 1, StepSize: 0.01}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.Solver = "lbfgs"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Activation = "gelu"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.HiddenSizes = []int{4, 0}
	assert.Error(t, bad.Validate())

	bad = valid
	bad.StepSize = 0
	assert.Error(t, bad.Validate())
}
