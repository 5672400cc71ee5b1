package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pgload",
	Short: "Load newline-delimited JSON events into PostgreSQL",
	Long: `pgload appends newline-delimited JSON event files to a jsonb table in
PostgreSQL and runs the surrounding analytics pipeline: truncate raw tables,
seed, load, transform, observability report, and CSV export of the marts.

Connection settings come from POSTGRES_HOST, POSTGRES_PORT, POSTGRES_DB,
POSTGRES_USER and POSTGRES_PASSWORD (a .env file in the working directory is
read first), then from the connection section of pgload.yaml.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database connection failed
  12 - User denied truncate approval
  13 - INSERT, TRUNCATE or COPY failed
  15 - Events file not found
  16 - External pipeline step failed`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
