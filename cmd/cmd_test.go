package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/gridrl/agent"
	"github.com/samuelfneumann/gridrl/experiment/tracker"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	root := NewRootCommand()
	var out, logs bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), logs.String(), err
}

func TestTrainThenEval(t *testing.T) {
	dir := t.TempDir()
	save := filepath.Join(dir, "brain.gob")
	returns := filepath.Join(dir, "returns.gob")
	chart := filepath.Join(dir, "chart.html")

	common := []string{
		"--rows", "3", "--cols", "3", "--goal-row", "2", "--goal-col", "2",
		"--save-path", save, "--colour=false", "--seed", "7",
		"--test-episodes", "2",
	}

	args := append([]string{"train", "--episodes", "300",
		"--learning-rate", "0.8", "--epsilon-decay", "0.005",
		"--returns-path", returns, "--chart-path", chart,
		"--report-every", "100"}, common...)
	out, logs, err := execute(t, args...)
	require.NoError(t, err)

	assert.Contains(t, out, "G")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)
	assert.Contains(t, logs, `"message":"run finished"`)
	assert.Contains(t, logs, `"run":`)

	data, err := tracker.LoadData(returns)
	require.NoError(t, err)
	require.Len(t, data, 302)
	assert.Equal(t, 7.0, data[len(data)-1])

	_, err = os.Stat(save)
	assert.NoError(t, err)
	_, err = os.Stat(chart)
	assert.NoError(t, err)

	args = append([]string{"eval"}, common...)
	evalOut, logs, err := execute(t, args...)
	require.NoError(t, err)
	assert.Equal(t, out, evalOut)
	assert.Contains(t, logs, `"message":"evaluation finished"`)
}

func TestKeepCheckpointsNumbersFiles(t *testing.T) {
	dir := t.TempDir()
	save := filepath.Join(dir, "brain.gob")
	common := []string{"--rows", "1", "--cols", "3", "--start-col", "0",
		"--goal-row", "0", "--goal-col", "2", "--save-path", save,
		"--colour=false"}

	args := append([]string{"train", "--episodes", "40",
		"--test-episodes", "0", "--checkpoint-every", "20",
		"--keep-checkpoints"}, common...)
	out, _, err := execute(t, args...)
	require.NoError(t, err)

	for _, name := range []string{"brain1.gob", "brain2.gob"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	_, err = os.Stat(filepath.Join(dir, "brain3.gob"))
	assert.True(t, os.IsNotExist(err))

	// The final brain is also written to the save path for eval
	_, err = os.Stat(save)
	require.NoError(t, err)

	args = append([]string{"eval", "--test-episodes", "1"}, common...)
	evalOut, _, err := execute(t, args...)
	require.NoError(t, err)
	assert.Equal(t, out, evalOut)
}

func TestEnvironmentVariablesAreRead(t *testing.T) {
	t.Setenv("GRIDRL_POLICY_MODE", "bogus")

	_, _, err := execute(t, "train", "--episodes", "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, agent.ErrUnknownPolicyType))
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("GRIDRL_POLICY_MODE", "bogus")

	_, _, err := execute(t, "train", "--episodes", "5", "--test-episodes",
		"0", "--policy-mode", "softmax", "--rows", "1", "--cols", "2",
		"--goal-row", "0", "--goal-col", "1")
	assert.NoError(t, err)
}

func TestEvalRequiresSavePath(t *testing.T) {
	_, _, err := execute(t, "eval")
	assert.Error(t, err)
}

func TestHunterPreyPolicyCoversRelativeGrid(t *testing.T) {
	out, _, err := execute(t, "train", "--environment", "hunterprey",
		"--rows", "3", "--episodes", "50", "--test-episodes", "0",
		"--colour=false", "--step-reward", "-0.1", "--goal-reward", "100")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, 5, len(strings.Fields(lines[2])))
	assert.Equal(t, "G", strings.Fields(lines[2])[2])
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	_, _, err := newLogger(&bytes.Buffer{}, "loud")
	assert.Error(t, err)

	_, id, err := newLogger(&bytes.Buffer{}, "DEBUG")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}
