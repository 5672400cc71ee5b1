package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vvka-141/pgload/internal/db"
	"github.com/vvka-141/pgload/pkg/pgload"
)

const copyOutSQL = `COPY (SELECT * FROM %s) TO STDOUT WITH CSV HEADER`

// ExportTarget names one relation and the CSV file it is written to.
type ExportTarget struct {
	Relation string
	File     string
}

// Exporter writes marts to CSV files through COPY TO STDOUT.
type Exporter struct {
	session poolSource
	targets []ExportTarget
	logger  pgload.Logger
}

// NewExporter creates an Exporter for targets.
func NewExporter(session *Session, targets []ExportTarget, logger pgload.Logger) *Exporter {
	return &Exporter{session: session, targets: targets, logger: logger}
}

// Run exports every target, stopping at the first failure.
func (e *Exporter) Run(ctx context.Context, step pgload.Step) error {
	pool, err := e.session.Pool(ctx)
	if err != nil {
		return err
	}
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w: %w", pgload.ErrConnectionFailed, err)
	}
	defer conn.Release()

	pgConn := conn.Conn().PgConn()
	for _, target := range e.targets {
		rows, err := ExportCSV(ctx, copierFunc(func(ctx context.Context, w io.Writer, sql string) (int64, error) {
			tag, err := pgConn.CopyTo(ctx, w, sql)
			return tag.RowsAffected(), err
		}), target)
		if err != nil {
			return err
		}
		e.logger.Info("Exported %d rows from %s to %s", rows, target.Relation, target.File)
	}
	return nil
}

// Copier streams the output of a COPY ... TO STDOUT statement into w.
type Copier interface {
	CopyTo(ctx context.Context, w io.Writer, sql string) (int64, error)
}

type copierFunc func(ctx context.Context, w io.Writer, sql string) (int64, error)

func (f copierFunc) CopyTo(ctx context.Context, w io.Writer, sql string) (int64, error) {
	return f(ctx, w, sql)
}

// ExportCSV writes target.Relation as CSV with a header row to target.File,
// creating parent directories as needed. A partially written file is removed.
func ExportCSV(ctx context.Context, copier Copier, target ExportTarget) (rows int64, err error) {
	ident, err := db.QuoteTable(target.Relation)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(target.File), 0755); err != nil {
		return 0, fmt.Errorf("failed to create export directory: %w: %w", pgload.ErrStorage, err)
	}

	f, err := os.Create(target.File)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w: %w", target.File, pgload.ErrStorage, err)
	}
	defer func() {
		closeErr := f.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("failed to write %s: %w: %w", target.File, pgload.ErrStorage, closeErr)
		}
		if err != nil {
			_ = os.Remove(target.File)
		}
	}()

	rows, err = copier.CopyTo(ctx, f, fmt.Sprintf(copyOutSQL, ident))
	if err != nil {
		return 0, fmt.Errorf("failed to export %s: %w: %w", target.Relation, pgload.ErrStorage, err)
	}
	return rows, nil
}

var _ pgload.StepRunner = (*Exporter)(nil)
