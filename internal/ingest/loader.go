package ingest

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/pgload/internal/db"
	"github.com/vvka-141/pgload/internal/logging"
	"github.com/vvka-141/pgload/pkg/pgload"
)

// TxBeginner is satisfied by *pgxpool.Pool, *pgxpool.Conn and *pgx.Conn.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

const insertSQL = `INSERT INTO %s (data, source_file_name) VALUES ($1, $2)`

// Loader inserts records in fixed-size batches, one transaction per batch.
type Loader struct {
	batchSize int
	logger    pgload.Logger
}

// NewLoader creates a Loader. batchSize <= 0 selects pgload.DefaultBatchSize;
// a nil logger discards output.
func NewLoader(batchSize int, logger pgload.Logger) *Loader {
	if batchSize <= 0 {
		batchSize = pgload.DefaultBatchSize
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Loader{batchSize: batchSize, logger: logger}
}

// BatchSize returns the number of records per round-trip.
func (l *Loader) BatchSize() int { return l.batchSize }

// Load drains records into table. It stops at the first error: the failing
// batch is rolled back, earlier batches stay committed, and the returned
// result counts only committed rows. A read error discards the pending batch.
func (l *Loader) Load(ctx context.Context, conn TxBeginner, table string, records iter.Seq2[pgload.Record, error]) (pgload.LoadResult, error) {
	start := time.Now()
	res := pgload.LoadResult{Table: table, State: pgload.LoadNotStarted}

	fail := func(err error) (pgload.LoadResult, error) {
		res.State = pgload.LoadFailed
		res.Duration = time.Since(start)
		return res, err
	}

	ident, err := db.QuoteTable(table)
	if err != nil {
		return fail(err)
	}
	stmt := fmt.Sprintf(insertSQL, ident)

	res.State = pgload.LoadInserting
	pending := make([]pgload.Record, 0, l.batchSize)

	commit := func() error {
		if err := l.insertBatch(ctx, conn, stmt, pending, res.Batches+1, res.Rows); err != nil {
			return err
		}
		res.Rows += int64(len(pending))
		res.Batches++
		pending = pending[:0]
		return nil
	}

	for rec, err := range records {
		if err != nil {
			return fail(err)
		}
		if res.SourceFile == "" {
			res.SourceFile = rec.SourceFile
		}
		pending = append(pending, rec)
		if len(pending) == l.batchSize {
			if err := commit(); err != nil {
				return fail(err)
			}
		}
	}
	if len(pending) > 0 {
		if err := commit(); err != nil {
			return fail(err)
		}
	}

	res.State = pgload.LoadDone
	res.Duration = time.Since(start)
	return res, nil
}

// insertBatch sends recs as one pgx.Batch inside its own transaction.
// n is the 1-based batch number and offset the number of rows already committed.
func (l *Loader) insertBatch(ctx context.Context, conn TxBeginner, stmt string, recs []pgload.Record, n int, offset int64) (err error) {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("batch %d: failed to begin transaction: %w: %w", n, pgload.ErrStorage, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	batch := &pgx.Batch{}
	for _, rec := range recs {
		batch.Queue(stmt, rec.Data, rec.SourceFile)
	}

	results := tx.SendBatch(ctx, batch)
	for i := range recs {
		if _, execErr := results.Exec(); execErr != nil {
			results.Close()
			return fmt.Errorf("batch %d: failed to insert record %d: %w: %w", n, offset+int64(i)+1, pgload.ErrStorage, execErr)
		}
	}
	if err = results.Close(); err != nil {
		return fmt.Errorf("batch %d: failed to complete batch insert: %w: %w", n, pgload.ErrStorage, err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("batch %d: failed to commit: %w: %w", n, pgload.ErrStorage, err)
	}

	l.logger.Verbose("Committed batch %d (%d rows)", n, len(recs))
	return nil
}
