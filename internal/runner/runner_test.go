package runner

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The tests drive the runner with sh instead of a Python interpreter; the
// runner only cares about "binary plus source file path".

func TestExecuteSuccess(t *testing.T) {
	r := New("sh", t.TempDir(), 10*time.Second)

	outcome, err := r.Execute(context.Background(), "run-success", "echo hello\nexit 0\n")
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	assert.Contains(t, outcome.CombinedOutput, "hello")
	assert.False(t, outcome.TimedOut)
	assert.Zero(t, outcome.ExitCode)
}

func TestExecuteFailureCapturesExitCode(t *testing.T) {
	r := New("sh", t.TempDir(), 10*time.Second)

	outcome, err := r.Execute(context.Background(), "run-failure", "echo boom 1>&2\nexit 3\n")
	require.NoError(t, err, "a non-zero exit is a reported outcome, not an error")

	assert.False(t, outcome.Success)
	assert.Equal(t, 3, outcome.ExitCode)
	assert.Contains(t, outcome.CombinedOutput, "boom")
}

func TestExecuteCapturesStderrAndStdoutCombined(t *testing.T) {
	r := New("sh", t.TempDir(), 10*time.Second)

	outcome, err := r.Execute(context.Background(), "run-combined", "echo out\necho err 1>&2\n")
	require.NoError(t, err)

	assert.Contains(t, outcome.CombinedOutput, "out")
	assert.Contains(t, outcome.CombinedOutput, "err")
}

func TestExecuteKeepsSourceForPostMortem(t *testing.T) {
	r := New("sh", t.TempDir(), 10*time.Second)

	outcome, err := r.Execute(context.Background(), "run-postmortem", "exit 1\n")
	require.NoError(t, err)

	data, readErr := os.ReadFile(outcome.SourcePath)
	require.NoError(t, readErr, "source file must survive the run")
	assert.Equal(t, "exit 1\n", string(data))
}

func TestExecuteArtifactPathInsideWorkDir(t *testing.T) {
	r := New("sh", t.TempDir(), 10*time.Second)

	outcome, err := r.Execute(context.Background(), "run-artifact", "printf 'x' > output.mid\n")
	require.NoError(t, err)
	require.True(t, outcome.Success)

	// The generated program writes relative to its work dir, so the fixed
	// name lands at the per-run artifact path
	data, readErr := os.ReadFile(outcome.ArtifactPath)
	require.NoError(t, readErr)
	assert.Equal(t, "x", string(data))
}

func TestExecuteIsolatesConcurrentRuns(t *testing.T) {
	workspace := t.TempDir()
	r := New("sh", workspace, 10*time.Second)

	first, err := r.Execute(context.Background(), "run-a", "printf 'a' > output.mid\n")
	require.NoError(t, err)
	second, err := r.Execute(context.Background(), "run-b", "printf 'b' > output.mid\n")
	require.NoError(t, err)

	assert.NotEqual(t, first.ArtifactPath, second.ArtifactPath)

	dataA, _ := os.ReadFile(first.ArtifactPath)
	dataB, _ := os.ReadFile(second.ArtifactPath)
	assert.Equal(t, "a", string(dataA))
	assert.Equal(t, "b", string(dataB))
}

func TestExecuteTimeout(t *testing.T) {
	r := New("sh", t.TempDir(), 200*time.Millisecond)

	outcome, err := r.Execute(context.Background(), "run-timeout", "sleep 5\n")
	require.NoError(t, err)

	assert.False(t, outcome.Success)
	assert.True(t, outcome.TimedOut)
	assert.Contains(t, outcome.CombinedOutput, "execution aborted")
}

func TestExecuteOutcomeExclusivity(t *testing.T) {
	r := New("sh", t.TempDir(), 10*time.Second)

	success, err := r.Execute(context.Background(), "run-x", "exit 0\n")
	require.NoError(t, err)
	failure, err := r.Execute(context.Background(), "run-y", "exit 1\n")
	require.NoError(t, err)

	assert.True(t, success.Success)
	assert.Zero(t, success.ExitCode)
	assert.False(t, failure.Success)
	assert.NotZero(t, failure.ExitCode)
}

func TestExecuteMissingInterpreter(t *testing.T) {
	r := New("definitely-not-a-real-binary", t.TempDir(), time.Second)

	outcome, err := r.Execute(context.Background(), "run-nobin", "exit 0\n")
	require.NoError(t, err, "a missing interpreter is still a reportable outcome")
	assert.False(t, outcome.Success)
	assert.Equal(t, -1, outcome.ExitCode)
}
