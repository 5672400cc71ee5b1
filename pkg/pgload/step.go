package pgload

import "context"

// StepKind selects which runner executes a pipeline step.
type StepKind string

const (
	StepTruncate StepKind = "truncate" // TRUNCATE the configured raw tables
	StepLoad     StepKind = "load"     // bulk-load the events file
	StepCommand  StepKind = "command"  // external tool invoked through the shell
	StepExport   StepKind = "export"   // COPY marts to CSV files
)

// Step is one named unit of the orchestrated pipeline.
type Step struct {
	Name    string
	Kind    StepKind
	Command string // shell command line, only for StepCommand
	Dir     string // working directory for StepCommand; empty means current
}

// StepRunner executes a single pipeline step.
// A nil return means the step succeeded.
type StepRunner interface {
	Run(ctx context.Context, step Step) error
}

// Approver requests confirmation before a destructive operation.
type Approver interface {
	// RequestApproval returns true if the user approves acting on target.
	RequestApproval(ctx context.Context, target string) (bool, error)
}
