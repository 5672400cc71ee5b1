package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vvka-141/pgload/internal/db"
	"github.com/vvka-141/pgload/internal/pipeline"
	"github.com/vvka-141/pgload/internal/tui"
	"github.com/vvka-141/pgload/internal/ui"
	"github.com/vvka-141/pgload/pkg/pgload"
)

var truncateCmd = &cobra.Command{
	Use:   "truncate",
	Short: "Empty the raw tables",
	Long: `Truncate empties every table listed under raw_tables in pgload.yaml
(raw_users, raw_episodes and raw_event_files by default). Tables that do not
exist yet are skipped.

You are asked to type the database name to confirm. With --force a short
countdown is shown instead; non-interactive sessions require --force.`,
	Args: cobra.NoArgs,
	RunE: runTruncate,
}

type truncateFlagValues struct {
	config string
	force  bool
}

var truncateFlags truncateFlagValues

func init() {
	rootCmd.AddCommand(truncateCmd)

	truncateCmd.Flags().StringVar(&truncateFlags.config, "config", pgload.DefaultConfigFile,
		"Project file listing raw_tables")
	truncateCmd.Flags().BoolVar(&truncateFlags.force, "force", false,
		"Skip the confirmation prompt (a cancellable countdown is shown instead)")
}

func runTruncate(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	env, err := loadEnvironment(truncateFlags.config, verbose)
	if err != nil {
		return err
	}

	var approver pgload.Approver
	switch {
	case truncateFlags.force:
		approver = ui.NewForcedApprover(verbose)
	case tui.IsInteractive():
		approver = ui.NewInteractiveApprover(verbose)
	default:
		return fmt.Errorf("refusing to truncate without confirmation in a non-interactive session, use --force: %w", pgload.ErrApprovalDenied)
	}

	ctx, cancel := signalContext()
	defer cancel()

	env.logger.Verbose("Tables: %s", strings.Join(env.project.RawTables, ", "))
	approved, err := approver.RequestApproval(ctx, env.connection.Database)
	if err != nil {
		return err
	}
	if !approved {
		return fmt.Errorf("truncate of %s: %w", env.connection.Database, pgload.ErrApprovalDenied)
	}

	connector, err := db.NewConnector(env.connection)
	if err != nil {
		return err
	}
	session := pipeline.NewSession(connector)
	defer session.Close()

	pool, err := session.Pool(ctx)
	if err != nil {
		return err
	}
	done, err := pipeline.Truncate(ctx, pool, env.project.RawTables, env.logger)
	if err != nil {
		return fmt.Errorf("truncate failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Truncated %d table(s)\n", len(done))
	return nil
}
