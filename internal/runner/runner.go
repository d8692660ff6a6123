// Package runner executes generated program source as a child process.
//
// The source comes from an external text-generation service and must be
// treated as adversarial input. The runner bounds wall-clock time and
// isolates each run in its own working directory, but it does not restrict
// filesystem or network access; deploy behind OS-level sandboxing (container,
// non-root user, resource limits) in any security-conscious setting.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/nibura2002/AI-MIDI-generator/internal/compose"
	"github.com/nibura2002/AI-MIDI-generator/internal/logger"
)

const (
	sourceFileMode = 0o644
	workDirMode    = 0o755

	// exitCodeUnknown is reported when the process was killed or never started
	exitCodeUnknown = -1
)

// Outcome captures one execution. Exactly one of Success/Failure holds per
// run; ExitCode is meaningful only when Success is false.
type Outcome struct {
	Success        bool          `json:"success"`
	CombinedOutput string        `json:"combined_output"`
	ExitCode       int           `json:"exit_code"`
	Duration       time.Duration `json:"duration"`
	TimedOut       bool          `json:"timed_out"`

	// SourcePath is kept on disk after the run for post-mortem inspection
	SourcePath   string `json:"source_path"`
	WorkDir      string `json:"work_dir"`
	ArtifactPath string `json:"artifact_path"`
}

// Runner writes sanitized source to a per-run work directory and executes it
// with the configured interpreter.
type Runner struct {
	interpreter  string
	workspaceDir string
	timeout      time.Duration
}

// New creates a Runner. interpreter is the host program runner binary
// (e.g. "python3"); workspaceDir is the root under which per-run directories
// are created.
func New(interpreter, workspaceDir string, timeout time.Duration) *Runner {
	return &Runner{
		interpreter:  interpreter,
		workspaceDir: workspaceDir,
		timeout:      timeout,
	}
}

// Execute persists source and runs it synchronously, blocking until the
// child exits or the timeout fires. A non-zero exit is a reported Outcome,
// not an error; Execute errors only when the run could not be set up at all.
func (r *Runner) Execute(ctx context.Context, runID, source string) (*Outcome, error) {
	workDir := filepath.Join(r.workspaceDir, runID)
	if err := os.MkdirAll(workDir, workDirMode); err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}

	sourcePath := filepath.Join(workDir, fmt.Sprintf("gen_%s.py", runID))
	if err := os.WriteFile(sourcePath, []byte(source), sourceFileMode); err != nil {
		return nil, fmt.Errorf("failed to write source file: %w", err)
	}

	outcome := &Outcome{
		SourcePath:   sourcePath,
		WorkDir:      workDir,
		ArtifactPath: filepath.Join(workDir, compose.ArtifactFileName),
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if r.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, r.interpreter, sourcePath)
	cmd.Dir = workDir

	start := time.Now()
	output, err := cmd.CombinedOutput()
	outcome.Duration = time.Since(start)
	outcome.CombinedOutput = string(output)

	if err == nil {
		outcome.Success = true
		logger.Info("Generated program executed", logger.Fields{
			"run_id":      runID,
			"duration_ms": outcome.Duration.Milliseconds(),
		})
		return outcome, nil
	}

	outcome.Success = false
	outcome.ExitCode = exitCodeUnknown

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		outcome.ExitCode = exitErr.ExitCode()
	}
	if runCtx.Err() != nil {
		outcome.TimedOut = errors.Is(runCtx.Err(), context.DeadlineExceeded)
		outcome.CombinedOutput += fmt.Sprintf("\n[execution aborted: %v]", runCtx.Err())
	}

	logger.Warn("Generated program failed", logger.Fields{
		"run_id":      runID,
		"exit_code":   outcome.ExitCode,
		"timed_out":   outcome.TimedOut,
		"duration_ms": outcome.Duration.Milliseconds(),
	})
	return outcome, nil
}
