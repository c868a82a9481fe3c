package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/gridrl/environment"
	"github.com/samuelfneumann/gridrl/environment/gridworld"
)

type rightward struct{}

func (rightward) Estimate(environment.State) []float64 {
	return []float64{0, 1, 1, 0}
}

func TestPolicyMarksGoalAndGreedyAction(t *testing.T) {
	goal, err := gridworld.NewGoal([]environment.State{{Row: 1, Col: 1}},
		2, 2, -1, 10)
	require.NoError(t, err)
	starter, err := gridworld.NewFixedStart(0, 0, 2, 2)
	require.NoError(t, err)
	env, err := gridworld.New(2, 2, goal, starter, environment.Cardinal())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Policy(&buf, Grid(2, 2, 0, 0), env, rightward{},
		false))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "→ →", strings.TrimSpace(lines[0]))
	assert.Equal(t, "→ G", strings.TrimSpace(lines[1]))
}

func TestGridOffsets(t *testing.T) {
	cells := Grid(3, 3, -1, -1)
	assert.Equal(t, environment.State{Row: -1, Col: -1}, cells[0][0])
	assert.Equal(t, environment.State{Row: 1, Col: 1}, cells[2][2])
}

func TestChartWritesHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.html")
	require.NoError(t, Chart(path, "learning curves",
		Series{Name: "return", Values: []float64{-5, -3, 6}},
		Series{Name: "steps", Values: []float64{8, 6, 4}},
	))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<html")
}
