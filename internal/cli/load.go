package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vvka-141/pgload/internal/db"
	"github.com/vvka-141/pgload/internal/ingest"
	"github.com/vvka-141/pgload/pkg/pgload"
)

var loadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Append a newline-delimited JSON file to a table",
	Long: `Load reads <file> line by line and appends every non-blank line as one
row of the destination table:

  data                   jsonb not null
  source_file_loaded_at  timestamptz default now()
  source_file_name       text

The table is created if it does not exist. Rows are inserted in batches of
1000, one transaction per batch. Re-running the same file appends the rows
again.

Examples:
  pgload load data/event_logs.jsonl
  pgload load data/event_logs.jsonl --table staging.raw_event_files`,
	Args: RequireEventsFile,
	RunE: runLoad,
}

type loadFlagValues struct {
	table     string
	config    string
	batchSize int
}

var loadFlags loadFlagValues

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().StringVar(&loadFlags.table, "table", pgload.DefaultTable,
		"Destination table, optionally schema-qualified\n"+
			"Precedence: --table > events_table in pgload.yaml > raw_event_files")
	loadCmd.Flags().StringVar(&loadFlags.config, "config", pgload.DefaultConfigFile,
		"Project file with connection defaults")
	loadCmd.Flags().IntVar(&loadFlags.batchSize, "batch-size", pgload.DefaultBatchSize,
		"Rows per transaction")
}

func runLoad(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	env, err := loadEnvironment(loadFlags.config, verbose)
	if err != nil {
		return err
	}

	table := loadFlags.table
	if !cmd.Flags().Changed("table") && env.project.EventsTable != "" {
		table = env.project.EventsTable
	}

	ctx, cancel := signalContext()
	defer cancel()

	service := ingest.NewService(db.NewConnector, ingest.NewLoader(loadFlags.batchSize, env.logger), env.logger)
	res, err := service.Load(ctx, ingest.LoadRequest{
		File:       args[0],
		Table:      table,
		Connection: env.connection,
	})
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d rows into %s\n", res.Rows, res.Table)
	return nil
}
