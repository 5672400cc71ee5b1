package pipeline

import (
	"context"
	"fmt"

	"github.com/vvka-141/pgload/pkg/pgload"
)

// Dispatcher routes each step to the runner registered for its kind.
type Dispatcher struct {
	runners map[pgload.StepKind]pgload.StepRunner
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{runners: make(map[pgload.StepKind]pgload.StepRunner)}
}

// Register binds runner to kind, replacing any previous binding.
func (d *Dispatcher) Register(kind pgload.StepKind, runner pgload.StepRunner) *Dispatcher {
	d.runners[kind] = runner
	return d
}

// Run executes step with the runner bound to its kind.
func (d *Dispatcher) Run(ctx context.Context, step pgload.Step) error {
	runner, ok := d.runners[step.Kind]
	if !ok {
		return fmt.Errorf("step %q: no runner for kind %q: %w", step.Name, step.Kind, pgload.ErrInvalidConfig)
	}
	return runner.Run(ctx, step)
}

var _ pgload.StepRunner = (*Dispatcher)(nil)
