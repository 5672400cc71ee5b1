package pipeline

import (
	"fmt"
	"strings"

	"github.com/vvka-141/pgload/internal/config"
	"github.com/vvka-141/pgload/pkg/pgload"
)

// Names of the default steps, usable with Select.
const (
	StepNameTruncate  = "truncate"
	StepNameSeed      = "seed"
	StepNameLoad      = "load"
	StepNameTransform = "transform"
	StepNameObserve   = "observe"
	StepNameReport    = "report"
	StepNameExport    = "export"
)

// DefaultSteps returns the podcast analytics pipeline for cfg:
// truncate, seed, load, transform, observe, report, export.
func DefaultSteps(cfg *config.ProjectConfig) []pgload.Step {
	pd := cfg.ProfilesDir
	dbt := func(args string) string {
		return fmt.Sprintf("dbt %s --profiles-dir %s", args, pd)
	}

	return []pgload.Step{
		{Name: StepNameTruncate, Kind: pgload.StepTruncate},
		{Name: StepNameSeed, Kind: pgload.StepCommand, Dir: cfg.DbtDir,
			Command: orDefault(cfg.Steps.Seed, dbt("seed"))},
		{Name: StepNameLoad, Kind: pgload.StepLoad},
		{Name: StepNameTransform, Kind: pgload.StepCommand, Dir: cfg.DbtDir,
			Command: orDefault(cfg.Steps.Transform, strings.Join([]string{dbt("deps"), dbt("run"), dbt("test")}, " && "))},
		{Name: StepNameObserve, Kind: pgload.StepCommand, Dir: cfg.DbtDir,
			Command: orDefault(cfg.Steps.Observe, fmt.Sprintf("dbt run --profiles-dir %s --select elementary", pd))},
		{Name: StepNameReport, Kind: pgload.StepCommand, Dir: cfg.DbtDir,
			Command: orDefault(cfg.Steps.Report, fmt.Sprintf("edr report --profiles-dir %s", pd))},
		{Name: StepNameExport, Kind: pgload.StepExport},
	}
}

// ExportTargets maps the configured marts to CSV files.
func ExportTargets(cfg *config.ProjectConfig) []ExportTarget {
	targets := make([]ExportTarget, 0, len(cfg.Marts))
	for _, m := range cfg.Marts {
		targets = append(targets, ExportTarget{Relation: m.Name, File: cfg.MartFile(m)})
	}
	return targets
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
