package pipeline

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vvka-141/pgload/internal/tui"
	"github.com/vvka-141/pgload/pkg/pgload"
)

// StepResult records the outcome of one executed step.
type StepResult struct {
	Step     pgload.Step
	Duration time.Duration
	Err      error
}

// Report summarizes a run.
type Report struct {
	RunID    string
	Results  []StepResult
	Duration time.Duration
}

// Failed returns the failing step result, or nil when every step succeeded.
func (r *Report) Failed() *StepResult {
	for i := range r.Results {
		if r.Results[i].Err != nil {
			return &r.Results[i]
		}
	}
	return nil
}

// Pipeline executes steps in declared order.
type Pipeline struct {
	steps  []pgload.Step
	runner pgload.StepRunner
	runID  string
	out    io.Writer
	styled bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRunID sets the run identifier; by default a random UUID is used.
func WithRunID(id string) Option {
	return func(p *Pipeline) { p.runID = id }
}

// WithOutput directs step status lines to out, styled with lipgloss if styled.
func WithOutput(out io.Writer, styled bool) Option {
	return func(p *Pipeline) {
		p.out = out
		p.styled = styled
	}
}

// New creates a Pipeline.
func New(steps []pgload.Step, runner pgload.StepRunner, opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:  steps,
		runner: runner,
		runID:  NewRunID(),
		out:    io.Discard,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// RunID returns the identifier passed to external steps as PGLOAD_RUN_ID.
func (p *Pipeline) RunID() string { return p.runID }

// Steps returns the steps in execution order.
func (p *Pipeline) Steps() []pgload.Step {
	return append([]pgload.Step(nil), p.steps...)
}

// Select returns a pipeline restricted to the named steps, keeping declared
// order. Unknown names are a configuration error.
func (p *Pipeline) Select(names []string) (*Pipeline, error) {
	if len(names) == 0 {
		return p, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		want[n] = true
	}

	var selected []pgload.Step
	for _, s := range p.steps {
		if want[s.Name] {
			selected = append(selected, s)
			delete(want, s.Name)
		}
	}
	if len(want) > 0 {
		unknown := make([]string, 0, len(want))
		for n := range want {
			unknown = append(unknown, n)
		}
		slices.Sort(unknown)
		return nil, fmt.Errorf("unknown step(s) %s (available: %s): %w",
			strings.Join(unknown, ", "), strings.Join(p.names(), ", "), pgload.ErrInvalidConfig)
	}

	clone := *p
	clone.steps = selected
	return &clone, nil
}

// Plan describes the steps without running them, one line per step.
func (p *Pipeline) Plan() []string {
	lines := make([]string, 0, len(p.steps))
	for i, s := range p.steps {
		line := fmt.Sprintf("%d. %s [%s]", i+1, s.Name, s.Kind)
		if s.Command != "" {
			line += fmt.Sprintf(": %s", s.Command)
			if s.Dir != "" {
				line += fmt.Sprintf(" (in %s)", s.Dir)
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// Run executes every step and stops at the first failure. The returned
// report lists the steps that ran, including the failing one.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{RunID: p.runID}

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return p.finish(report, start), err
		}

		fmt.Fprintln(p.out, tui.StatusLine(p.styled, tui.StatusRunning, step.Name, 0))
		stepStart := time.Now()
		err := p.runner.Run(ctx, step)
		elapsed := time.Since(stepStart)
		report.Results = append(report.Results, StepResult{Step: step, Duration: elapsed, Err: err})

		if err != nil {
			fmt.Fprintln(p.out, tui.StatusLine(p.styled, tui.StatusFailed, step.Name, elapsed))
			return p.finish(report, start), fmt.Errorf("step %q failed: %w", step.Name, err)
		}
		fmt.Fprintln(p.out, tui.StatusLine(p.styled, tui.StatusDone, step.Name, elapsed))
	}

	return p.finish(report, start), nil
}

func (p *Pipeline) finish(r *Report, start time.Time) *Report {
	r.Duration = time.Since(start)
	return r
}

func (p *Pipeline) names() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name
	}
	return names
}
