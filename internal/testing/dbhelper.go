package testing

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/pgload/internal/testinfra"
	"github.com/vvka-141/pgload/pkg/pgload"
)

// TestConnEnv points integration tests at an existing server instead of a container.
const TestConnEnv = "PGLOAD_TEST_CONN"

var (
	testContainerOnce sync.Once
	testContainerConn string
	testContainerErr  error
)

func getOrStartTestContainer() (string, error) {
	testContainerOnce.Do(func() {
		container, err := testinfra.StartPostgres(context.Background())
		if err != nil {
			testContainerErr = err
			return
		}
		testContainerConn = container.ConnString
	})
	return testContainerConn, testContainerErr
}

// GetTestConnectionString returns the test database connection string.
// Priority: PGLOAD_TEST_CONN env var > auto-started testcontainer > skip test.
func GetTestConnectionString(t *testing.T) string {
	t.Helper()

	if connString := os.Getenv(TestConnEnv); connString != "" {
		return connString
	}

	connString, err := getOrStartTestContainer()
	if err != nil {
		t.Skipf("%s not set and Docker unavailable: %v", TestConnEnv, err)
	}
	return connString
}

// SkipIfShort skips the test if running in short mode (-short flag).
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequireDatabase combines SkipIfShort and GetTestConnectionString for convenience.
func RequireDatabase(t *testing.T) string {
	t.Helper()

	SkipIfShort(t)
	return GetTestConnectionString(t)
}

// ConnectionConfig converts the test connection string into the struct the
// connectors take.
func ConnectionConfig(t *testing.T, connString string) *pgload.ConnectionConfig {
	t.Helper()

	pc, err := pgconn.ParseConfig(connString)
	if err != nil {
		t.Fatalf("parse test connection string: %v", err)
	}
	return &pgload.ConnectionConfig{
		Host:       pc.Host,
		Port:       int(pc.Port),
		Database:   pc.Database,
		Username:   pc.User,
		Password:   pc.Password,
		SSLMode:    "disable",
		AuthMethod: pgload.AuthMethodStandard,
		AppName:    "pgload-test",
	}
}

// NewPool opens a pool closed at test cleanup.
func NewPool(t *testing.T, connString string) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("open test pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// UniqueTable returns a fresh table name dropped at test cleanup.
func UniqueTable(t *testing.T, pool *pgxpool.Pool, prefix string) string {
	t.Helper()

	name := prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	t.Cleanup(func() {
		ident := pgx.Identifier{name}.Sanitize()
		_, _ = pool.Exec(context.Background(), "DROP TABLE IF EXISTS "+ident)
	})
	return name
}

// CountRows returns count(*) of table, failing the test on error.
func CountRows(t *testing.T, pool *pgxpool.Pool, table string) int64 {
	t.Helper()

	var n int64
	ident := pgx.Identifier(strings.Split(table, ".")).Sanitize()
	if err := pool.QueryRow(context.Background(), "SELECT count(*) FROM "+ident).Scan(&n); err != nil {
		t.Fatalf("count rows of %s: %v", table, err)
	}
	return n
}
