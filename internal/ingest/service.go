package ingest

import (
	"context"
	"fmt"
	"io"

	"github.com/vvka-141/pgload/internal/db"
	"github.com/vvka-141/pgload/pkg/pgload"
)

// LoadRequest names one file to load.
type LoadRequest struct {
	File       string
	Table      string // empty selects pgload.DefaultTable
	Connection *pgload.ConnectionConfig
}

// Service runs a complete load: input check, connect, create table, insert.
type Service struct {
	connectorFactory pgload.ConnectorFactory
	loader           *Loader
	logger           pgload.Logger
}

// NewService creates a Service. Connectors come from connectorFactory
// (db.NewConnector in production).
func NewService(connectorFactory pgload.ConnectorFactory, loader *Loader, logger pgload.Logger) *Service {
	return &Service{
		connectorFactory: connectorFactory,
		loader:           loader,
		logger:           logger,
	}
}

// Load loads req.File into req.Table. A missing file is reported before any
// connection attempt. The connection pool is closed on every return path.
func (s *Service) Load(ctx context.Context, req LoadRequest) (pgload.LoadResult, error) {
	table := req.Table
	if table == "" {
		table = pgload.DefaultTable
	}
	res := pgload.LoadResult{Table: table, State: pgload.LoadNotStarted}

	reader, err := Open(req.File)
	if err != nil {
		return res, err
	}
	res.SourceFile = reader.Name()

	if _, err := db.QuoteTable(table); err != nil {
		return res, err
	}
	if req.Connection == nil {
		return res, fmt.Errorf("no connection configuration: %w", pgload.ErrInvalidConfig)
	}

	connector, err := s.connectorFactory(req.Connection)
	if err != nil {
		return res, err
	}
	if closer, ok := connector.(io.Closer); ok {
		defer closer.Close()
	}

	s.logger.Verbose("Connecting to %s", db.Redacted(req.Connection))
	pool, err := connector.Connect(ctx)
	if err != nil {
		return res, err
	}
	defer pool.Close()

	if err := EnsureTable(ctx, pool, table); err != nil {
		return res, err
	}
	s.logger.Verbose("Table %s ready, loading %s in batches of %d", table, reader.Path(), s.loader.BatchSize())

	res, err = s.loader.Load(ctx, pool, table, reader.Records())
	if res.SourceFile == "" {
		res.SourceFile = reader.Name()
	}
	if err != nil {
		s.logger.Error("Load of %s stopped after %d committed rows (%d batches)", reader.Name(), res.Rows, res.Batches)
		return res, err
	}

	s.logger.Verbose("Loaded %d rows into %s in %s", res.Rows, table, res.Duration)
	return res, nil
}
