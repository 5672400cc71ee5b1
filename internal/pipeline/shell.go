package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/vvka-141/pgload/pkg/pgload"
)

// waitDelay bounds how long Run waits for output pipes after a cancelled step.
const waitDelay = 10 * time.Second

// ShellRunner executes command steps through "sh -c".
type ShellRunner struct {
	env    []string
	stdout io.Writer
	stderr io.Writer
	logger pgload.Logger
}

// NewShellRunner creates a ShellRunner. env is appended to the process
// environment of every child; output is streamed to stdout and stderr.
func NewShellRunner(env []string, stdout, stderr io.Writer, logger pgload.Logger) *ShellRunner {
	return &ShellRunner{env: env, stdout: stdout, stderr: stderr, logger: logger}
}

// Run executes step.Command in step.Dir. A non-zero exit wraps pgload.ErrStepFailed.
func (r *ShellRunner) Run(ctx context.Context, step pgload.Step) error {
	if step.Command == "" {
		return fmt.Errorf("step %q has no command: %w", step.Name, pgload.ErrInvalidConfig)
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", step.Command)
	cmd.Dir = step.Dir
	cmd.Env = append(os.Environ(), r.env...)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	r.logger.Verbose("[%s] %s (in %s)", step.Name, step.Command, dirOrCwd(step.Dir))

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("step %q interrupted: %w", step.Name, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("step %q exited with code %d: %w", step.Name, exitErr.ExitCode(), pgload.ErrStepFailed)
		}
		return fmt.Errorf("step %q could not start: %w: %w", step.Name, pgload.ErrStepFailed, err)
	}
	return nil
}

func dirOrCwd(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

var _ pgload.StepRunner = (*ShellRunner)(nil)
