package ingest

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/pgload/internal/db"
	"github.com/vvka-141/pgload/pkg/pgload"
)

// Execer is satisfied by *pgxpool.Pool, *pgxpool.Conn, *pgx.Conn and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const createTableSQL = `CREATE TABLE IF NOT EXISTS %s (
    data                  jsonb NOT NULL,
    source_file_loaded_at timestamptz DEFAULT now(),
    source_file_name      text
)`

// EnsureTable creates the destination table if it does not exist.
// An existing table is left untouched, even if its columns differ.
func EnsureTable(ctx context.Context, conn Execer, table string) error {
	ident, err := db.QuoteTable(table)
	if err != nil {
		return err
	}
	if _, err := conn.Exec(ctx, fmt.Sprintf(createTableSQL, ident)); err != nil {
		return fmt.Errorf("failed to create table %s: %w: %w", table, pgload.ErrStorage, err)
	}
	return nil
}
