package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vvka-141/pgload/internal/config"
	"github.com/vvka-141/pgload/internal/db"
	"github.com/vvka-141/pgload/internal/logging"
	"github.com/vvka-141/pgload/pkg/pgload"
)

// environment is everything a database command resolves before connecting.
type environment struct {
	project    *config.ProjectConfig
	connection *pgload.ConnectionConfig
	logger     *logging.ConsoleLogger
}

// loadEnvironment reads .env, pgload.yaml (defaults when absent) and the
// POSTGRES_* variables. Nothing is dialed.
func loadEnvironment(configPath string, verbose bool) (*environment, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("%w: %w", pgload.ErrInvalidConfig, err)
	}

	project, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", configPath, err)
	}

	conn, err := config.ResolveConnection(os.Getenv, project)
	if err != nil {
		return nil, err
	}

	logger := logging.NewConsoleLogger(verbose)
	if verbose {
		logConnectionVerbose(logger, conn)
	}
	return &environment{project: project, connection: conn, logger: logger}, nil
}

// signalContext is cancelled on Ctrl+C or SIGTERM so the running statement
// or child process is aborted.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func logConnectionVerbose(logger pgload.Logger, conn *pgload.ConnectionConfig) {
	logger.Verbose("Connection resolved:")
	logger.Verbose("  Target: %s", db.Redacted(conn))
	logger.Verbose("  SSL Mode: %s", conn.SSLMode)
	logger.Verbose("  Auth Method: %s", conn.AuthMethod)
}
