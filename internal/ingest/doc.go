// Package ingest loads newline-delimited JSON event files into PostgreSQL.
//
// The pieces are used in this order:
//
//	reader, err := ingest.Open("data/event_logs.jsonl")   // fails before any DB work
//	err = ingest.EnsureTable(ctx, pool, "raw_event_files") // CREATE TABLE IF NOT EXISTS
//	res, err := ingest.NewLoader(0, logger).Load(ctx, pool, "raw_event_files", reader.Records())
//
// Service wires them together with connection acquisition and release.
//
// Lines are stored verbatim in a jsonb column; nothing is parsed or
// deduplicated, so loading the same file twice doubles its rows. Each batch
// commits in its own transaction: a failure in batch k keeps batches 1..k-1.
package ingest
