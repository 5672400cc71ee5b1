package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vvka-141/pgload/internal/db"
	"github.com/vvka-141/pgload/internal/pipeline"
	"github.com/vvka-141/pgload/pkg/pgload"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the marts to CSV files",
	Long: `Export writes every mart listed in pgload.yaml to <export_dir>/<mart>.csv
with a header row. The export directory is created if needed and existing
files are overwritten.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

type exportFlagValues struct {
	config string
}

var exportFlags exportFlagValues

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFlags.config, "config", pgload.DefaultConfigFile,
		"Project file listing the marts and export_dir")
}

func runExport(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	env, err := loadEnvironment(exportFlags.config, verbose)
	if err != nil {
		return err
	}

	targets := pipeline.ExportTargets(env.project)
	if len(targets) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No marts configured")
		return nil
	}

	connector, err := db.NewConnector(env.connection)
	if err != nil {
		return err
	}
	session := pipeline.NewSession(connector)
	defer session.Close()

	ctx, cancel := signalContext()
	defer cancel()

	exporter := pipeline.NewExporter(session, targets, env.logger)
	if err := exporter.Run(ctx, pgload.Step{Name: pipeline.StepNameExport, Kind: pgload.StepExport}); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d mart(s) to %s\n", len(targets), env.project.ExportDir)
	return nil
}
