package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RequireEventsFile validates that exactly one events file argument is provided.
func RequireEventsFile(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <file>

Usage: %s

Example:
  %s data/event_logs.jsonl --table raw_event_files`, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}
