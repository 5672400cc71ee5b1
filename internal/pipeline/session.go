package pipeline

import (
	"context"
	"io"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/pgload/pkg/pgload"
)

// Session opens the database lazily and shares one pool between the
// truncate and export steps of a run.
type Session struct {
	connector pgload.Connector

	mu   sync.Mutex
	pool *pgxpool.Pool
}

// NewSession wraps connector. Nothing is dialed until Pool is called.
func NewSession(connector pgload.Connector) *Session {
	return &Session{connector: connector}
}

// Pool returns the shared pool, connecting on first use.
func (s *Session) Pool(ctx context.Context) (*pgxpool.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pool != nil {
		return s.pool, nil
	}
	pool, err := s.connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	s.pool = pool
	return pool, nil
}

// Close releases the pool and, for dialer-backed connectors, the dialer.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
	if closer, ok := s.connector.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
