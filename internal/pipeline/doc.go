// Package pipeline sequences the analytics steps around the event loader.
//
// A Pipeline is an ordered list of pgload.Step values executed by a
// pgload.StepRunner. The Dispatcher routes each step to the runner for its
// kind:
//
//	truncate -> Truncator   (TRUNCATE raw tables, missing tables skipped)
//	load     -> LoadRunner  (ingest.Service)
//	command  -> ShellRunner (external tools such as dbt and edr)
//	export   -> Exporter    (COPY marts to CSV)
//
// Execution is sequential and stops at the first failing step.
package pipeline
