package pipeline

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/pgload/internal/config"
	"github.com/vvka-141/pgload/pkg/pgload"
)

type recordingRunner struct {
	ran    []string
	failOn string
	err    error
}

func (r *recordingRunner) Run(ctx context.Context, step pgload.Step) error {
	r.ran = append(r.ran, step.Name)
	if step.Name == r.failOn {
		return r.err
	}
	return nil
}

func steps(names ...string) []pgload.Step {
	out := make([]pgload.Step, len(names))
	for i, n := range names {
		out[i] = pgload.Step{Name: n, Kind: pgload.StepCommand, Command: "true"}
	}
	return out
}

func TestPipeline_RunsInDeclaredOrder(t *testing.T) {
	runner := &recordingRunner{}
	var out bytes.Buffer
	p := New(steps("a", "b", "c"), runner, WithOutput(&out, false), WithRunID("run-1"))

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, runner.ran)
	assert.Equal(t, "run-1", report.RunID)
	assert.Len(t, report.Results, 3)
	assert.Nil(t, report.Failed())
	assert.Contains(t, out.String(), "✓ b")
}

func TestPipeline_StopsAtFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	runner := &recordingRunner{failOn: "b", err: boom}
	var out bytes.Buffer
	p := New(steps("a", "b", "c"), runner, WithOutput(&out, false))

	report, err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `step "b" failed`)
	assert.Equal(t, []string{"a", "b"}, runner.ran)
	require.NotNil(t, report.Failed())
	assert.Equal(t, "b", report.Failed().Step.Name)
	assert.Contains(t, out.String(), "✗ b")
	assert.NotContains(t, out.String(), "c")
}

func TestPipeline_CancelledContextRunsNothing(t *testing.T) {
	runner := &recordingRunner{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(steps("a"), runner).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, runner.ran)
}

func TestPipeline_DefaultRunIDIsUUID(t *testing.T) {
	p := New(nil, &recordingRunner{})
	assert.Len(t, p.RunID(), 36)
	assert.NotEqual(t, p.RunID(), New(nil, &recordingRunner{}).RunID())
}

func TestPipeline_SelectKeepsDeclaredOrder(t *testing.T) {
	p := New(steps("truncate", "seed", "load", "export"), &recordingRunner{})

	sel, err := p.Select([]string{"export", " truncate"})
	require.NoError(t, err)

	var names []string
	for _, s := range sel.Steps() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"truncate", "export"}, names)
	assert.Len(t, p.Steps(), 4, "original pipeline is unchanged")
}

func TestPipeline_SelectUnknownStep(t *testing.T) {
	p := New(steps("truncate", "seed"), &recordingRunner{})

	_, err := p.Select([]string{"seed", "zzz", "aaa"})
	require.Error(t, err)
	assert.ErrorIs(t, err, pgload.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "aaa, zzz")
}

func TestPipeline_SelectEmptyReturnsAll(t *testing.T) {
	p := New(steps("a", "b"), &recordingRunner{})
	sel, err := p.Select(nil)
	require.NoError(t, err)
	assert.Len(t, sel.Steps(), 2)
}

func TestPipeline_Plan(t *testing.T) {
	p := New([]pgload.Step{
		{Name: "truncate", Kind: pgload.StepTruncate},
		{Name: "seed", Kind: pgload.StepCommand, Command: "dbt seed", Dir: "dbt"},
	}, &recordingRunner{})

	assert.Equal(t, []string{
		"1. truncate [truncate]",
		"2. seed [command]: dbt seed (in dbt)",
	}, p.Plan())
}

func TestDefaultSteps(t *testing.T) {
	st := DefaultSteps(config.Default())

	var names []string
	for _, s := range st {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"truncate", "seed", "load", "transform", "observe", "report", "export"}, names)

	byName := map[string]pgload.Step{}
	for _, s := range st {
		byName[s.Name] = s
	}
	assert.Equal(t, "dbt seed --profiles-dir ..", byName["seed"].Command)
	assert.Equal(t, "dbt deps --profiles-dir .. && dbt run --profiles-dir .. && dbt test --profiles-dir ..", byName["transform"].Command)
	assert.Equal(t, "dbt run --profiles-dir .. --select elementary", byName["observe"].Command)
	assert.Equal(t, "edr report --profiles-dir ..", byName["report"].Command)
	assert.Equal(t, "dbt", byName["seed"].Dir)
	assert.Equal(t, pgload.StepLoad, byName["load"].Kind)
}

func TestDefaultSteps_CommandOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Steps.Report = "echo skip"

	for _, s := range DefaultSteps(cfg) {
		if s.Name == StepNameReport {
			assert.Equal(t, "echo skip", s.Command)
		}
	}
}

func TestExportTargets(t *testing.T) {
	cfg := config.Default()
	cfg.Marts = append(cfg.Marts, config.Mart{Name: "mart_x", File: "x.csv"})

	assert.Equal(t, []ExportTarget{
		{Relation: "mart_top_episodes", File: "data/exports/mart_top_episodes.csv"},
		{Relation: "mart_user_session_metrics", File: "data/exports/mart_user_session_metrics.csv"},
		{Relation: "mart_x", File: "data/exports/x.csv"},
	}, ExportTargets(cfg))
}

func TestDispatcher_RoutesByKind(t *testing.T) {
	cmd := &recordingRunner{}
	trunc := &recordingRunner{}
	d := NewDispatcher().
		Register(pgload.StepCommand, cmd).
		Register(pgload.StepTruncate, trunc)

	require.NoError(t, d.Run(context.Background(), pgload.Step{Name: "t", Kind: pgload.StepTruncate}))
	require.NoError(t, d.Run(context.Background(), pgload.Step{Name: "c", Kind: pgload.StepCommand}))

	assert.Equal(t, []string{"t"}, trunc.ran)
	assert.Equal(t, []string{"c"}, cmd.ran)
}

func TestDispatcher_UnknownKind(t *testing.T) {
	err := NewDispatcher().Run(context.Background(), pgload.Step{Name: "x", Kind: pgload.StepExport})
	assert.ErrorIs(t, err, pgload.ErrInvalidConfig)
}
