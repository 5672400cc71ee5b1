package pgload

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Command completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitConnectionError = 11 // Failed to connect to database
	ExitApprovalDenied  = 12 // User denied truncate approval
	ExitStorageError    = 13 // INSERT, TRUNCATE or COPY failed
	ExitInputNotFound   = 15 // Input events file does not exist
	ExitStepFailed      = 16 // External pipeline step exited non-zero
)

const (
	// DefaultTable is the destination table for raw event records.
	DefaultTable = "raw_event_files"

	// DefaultBatchSize is the number of records sent per round-trip and committed per transaction.
	DefaultBatchSize = 1000

	// DefaultExportDir is where mart CSV files are written.
	DefaultExportDir = "data/exports"

	// DefaultConfigFile is the pipeline project file looked up in the working directory.
	DefaultConfigFile = "pgload.yaml"

	// MaxLineSize bounds a single event line.
	MaxLineSize = 64 * 1024 * 1024

	// RunIDEnv carries the pipeline run identifier into external steps.
	RunIDEnv = "PGLOAD_RUN_ID"

	// DefaultForceApprovalCountdown is the grace period shown before a forced truncate.
	DefaultForceApprovalCountdown = 5 * time.Second
)
