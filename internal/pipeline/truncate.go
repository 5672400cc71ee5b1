package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/pgload/internal/db"
	"github.com/vvka-141/pgload/pkg/pgload"
)

const undefinedTable = "42P01"

// Execer is satisfied by *pgxpool.Pool, *pgxpool.Conn and *pgx.Conn.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type poolSource interface {
	Pool(ctx context.Context) (*pgxpool.Pool, error)
}

// Truncator empties the raw tables ahead of a fresh load.
type Truncator struct {
	session poolSource
	tables  []string
	logger  pgload.Logger
}

// NewTruncator creates a Truncator for tables.
func NewTruncator(session *Session, tables []string, logger pgload.Logger) *Truncator {
	return &Truncator{session: session, tables: tables, logger: logger}
}

// Run truncates every configured table.
func (t *Truncator) Run(ctx context.Context, step pgload.Step) error {
	pool, err := t.session.Pool(ctx)
	if err != nil {
		return err
	}
	_, err = Truncate(ctx, pool, t.tables, t.logger)
	return err
}

// Truncate issues one TRUNCATE per table, each in its own implicit
// transaction, and returns the tables actually emptied. Tables that do not
// exist yet are skipped.
func Truncate(ctx context.Context, conn Execer, tables []string, logger pgload.Logger) ([]string, error) {
	var done []string
	for _, table := range tables {
		ident, err := db.QuoteTable(table)
		if err != nil {
			return done, err
		}
		if _, err := conn.Exec(ctx, "TRUNCATE TABLE "+ident); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
				logger.Info("Table %s does not exist, skipping", table)
				continue
			}
			return done, fmt.Errorf("failed to truncate %s: %w: %w", table, pgload.ErrStorage, err)
		}
		logger.Verbose("Truncated %s", table)
		done = append(done, table)
	}
	return done, nil
}

var _ pgload.StepRunner = (*Truncator)(nil)
