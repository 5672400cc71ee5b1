package ingest

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/pgload/pkg/pgload"
)

var errInsert = errors.New(`ERROR: invalid input syntax for type json (SQLSTATE 22P02)`)

// fakeDB commits queued records on Commit and can fail one batch.
type fakeDB struct {
	committed []pgload.Record
	sqls      []string
	begun     int
	rollbacks int
	beginErr  error
	commitErr error
	failBatch int // 1-based batch whose Exec fails; 0 never fails
	failAt    int // 0-based record within failBatch
}

func (f *fakeDB) Begin(_ context.Context) (pgx.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	f.begun++
	return &fakeTx{db: f, n: f.begun}, nil
}

type fakeTx struct {
	pgx.Tx
	db     *fakeDB
	n      int
	queued []pgload.Record
}

func (t *fakeTx) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	for _, q := range b.QueuedQueries {
		t.db.sqls = append(t.db.sqls, q.SQL)
		t.queued = append(t.queued, pgload.Record{
			Data:       q.Arguments[0].(string),
			SourceFile: q.Arguments[1].(string),
		})
	}
	return &fakeResults{tx: t}
}

func (t *fakeTx) Commit(_ context.Context) error {
	if t.db.commitErr != nil {
		return t.db.commitErr
	}
	t.db.committed = append(t.db.committed, t.queued...)
	return nil
}

func (t *fakeTx) Rollback(_ context.Context) error {
	t.db.rollbacks++
	return nil
}

type fakeResults struct {
	pgx.BatchResults
	tx   *fakeTx
	next int
}

func (r *fakeResults) Exec() (pgconn.CommandTag, error) {
	i := r.next
	r.next++
	if r.tx.n == r.tx.db.failBatch && i == r.tx.db.failAt {
		return pgconn.CommandTag{}, errInsert
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (r *fakeResults) Close() error { return nil }

// fakeExecer records statements passed to Exec.
type fakeExecer struct {
	sqls []string
	err  error
}

func (f *fakeExecer) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.sqls = append(f.sqls, sql)
	return pgconn.NewCommandTag("CREATE TABLE"), f.err
}

type mockConnector struct {
	pool   *pgxpool.Pool
	err    error
	calls  int
	closed bool
}

func (m *mockConnector) Connect(_ context.Context) (*pgxpool.Pool, error) {
	m.calls++
	return m.pool, m.err
}

func (m *mockConnector) Close() error {
	m.closed = true
	return nil
}
