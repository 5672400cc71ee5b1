package cli

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"github.com/vvka-141/pgload/internal/config"
	"github.com/vvka-141/pgload/internal/db"
	"github.com/vvka-141/pgload/internal/ingest"
	"github.com/vvka-141/pgload/internal/pipeline"
	"github.com/vvka-141/pgload/internal/tui"
	"github.com/vvka-141/pgload/pkg/pgload"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full analytics pipeline",
	Long: `Run executes the pipeline steps in order and stops at the first failure:

  truncate   empty the raw tables
  seed       dbt seed
  load       load the --events file
  transform  dbt deps, dbt run, dbt test
  observe    dbt run --select elementary
  report     edr report
  export     write the marts to CSV

External commands run in dbt_dir with --profiles-dir profiles_dir and see the
connection as POSTGRES_* variables plus PGLOAD_RUN_ID.

Examples:
  pgload run --events data/event_logs.jsonl
  pgload run --events data/event_logs.jsonl --dry-run
  pgload run --only truncate
  pgload run --only export`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

type runFlagValues struct {
	events string
	config string
	dryRun bool
	only   []string
}

var runFlags runFlagValues

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.events, "events", "",
		"Newline-delimited JSON events file (required when the load step runs)")
	runCmd.Flags().StringVar(&runFlags.config, "config", pgload.DefaultConfigFile,
		"Project file describing the pipeline (built-in defaults when absent)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false,
		"Print the steps without running them")
	runCmd.Flags().StringSliceVar(&runFlags.only, "only", nil,
		"Run only the named steps, in pipeline order\n"+
			"Example: --only truncate,load")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	env, err := loadEnvironment(runFlags.config, verbose)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	styled := out == os.Stdout && tui.IsStyled(os.Stdout)
	runID := pipeline.NewRunID()

	plan, err := pipeline.New(pipeline.DefaultSteps(env.project), nil).Select(runFlags.only)
	if err != nil {
		return err
	}

	if runFlags.dryRun {
		for _, line := range plan.Plan() {
			fmt.Fprintln(out, line)
		}
		return nil
	}

	loads := slices.ContainsFunc(plan.Steps(), func(s pgload.Step) bool { return s.Kind == pgload.StepLoad })
	if loads {
		if runFlags.events == "" {
			return fmt.Errorf(`required flag "events" not set (needed by the load step)`)
		}
		if _, err := ingest.Open(runFlags.events); err != nil {
			return err
		}
	}

	connector, err := db.NewConnector(env.connection)
	if err != nil {
		return err
	}
	session := pipeline.NewSession(connector)
	defer session.Close()

	dispatcher := newDispatcher(env, session, runID, runFlags.events)
	p := pipeline.New(plan.Steps(), dispatcher, pipeline.WithRunID(runID), pipeline.WithOutput(out, styled))

	ctx, cancel := signalContext()
	defer cancel()

	env.logger.Verbose("Run %s: %d step(s)", runID, len(p.Steps()))
	report, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline run %s failed: %w", runID, err)
	}

	env.logger.Info("Pipeline completed in %s (run %s)", report.Duration.Round(time.Millisecond), runID)
	if slices.ContainsFunc(p.Steps(), func(s pgload.Step) bool { return s.Name == pipeline.StepNameReport }) {
		env.logger.Info("Observability report: %s/edr_target/elementary_report.html", env.project.DbtDir)
	}
	return nil
}

// newDispatcher binds every step kind to its runner for one pipeline run.
func newDispatcher(env *environment, session *pipeline.Session, runID, eventsFile string) *pipeline.Dispatcher {
	logger := env.logger
	shellEnv := append(config.Environ(env.connection), pgload.RunIDEnv+"="+runID)
	service := ingest.NewService(db.NewConnector, ingest.NewLoader(0, logger), logger)

	return pipeline.NewDispatcher().
		Register(pgload.StepTruncate, pipeline.NewTruncator(session, env.project.RawTables, logger)).
		Register(pgload.StepLoad, pipeline.NewLoadRunner(service, ingest.LoadRequest{
			File:       eventsFile,
			Table:      env.project.EventsTable,
			Connection: env.connection,
		}, logger)).
		Register(pgload.StepCommand, pipeline.NewShellRunner(shellEnv, os.Stdout, os.Stderr, logger.WithPrefix("["+runID[:8]+"]"))).
		Register(pgload.StepExport, pipeline.NewExporter(session, pipeline.ExportTargets(env.project), logger))
}
