package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/vvka-141/pgload/pkg/pgload"
)

// Recognized environment variables and their fallbacks.
const (
	EnvHost           = "POSTGRES_HOST"
	EnvPort           = "POSTGRES_PORT"
	EnvDatabase       = "POSTGRES_DB"
	EnvUser           = "POSTGRES_USER"
	EnvPassword       = "POSTGRES_PASSWORD"
	EnvSSLMode        = "POSTGRES_SSLMODE"
	EnvAuthMethod     = "POSTGRES_AUTH_METHOD"
	EnvGoogleInstance = "POSTGRES_GOOGLE_INSTANCE"
	EnvAWSRegion      = "AWS_REGION"
	EnvAzureTenantID  = "AZURE_TENANT_ID"
	EnvAzureClientID  = "AZURE_CLIENT_ID"
	EnvAzureSecret    = "AZURE_CLIENT_SECRET"

	DefaultHost     = "localhost"
	DefaultPort     = 5432
	DefaultDatabase = "podcast_analytics"
	DefaultUser     = "podcast"
	DefaultPassword = "podcast"
	DefaultSSLMode  = "prefer"
	DefaultAppName  = "pgload"
)

// Getenv matches os.Getenv. Tests pass a map lookup instead.
type Getenv func(key string) string

// LoadDotEnv loads .env from the working directory without overriding
// variables already present in the process environment. A missing file is fine.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// DefaultConnection returns the fallback connection settings.
func DefaultConnection() *pgload.ConnectionConfig {
	return &pgload.ConnectionConfig{
		Host:       DefaultHost,
		Port:       DefaultPort,
		Database:   DefaultDatabase,
		Username:   DefaultUser,
		Password:   DefaultPassword,
		SSLMode:    DefaultSSLMode,
		AuthMethod: pgload.AuthMethodStandard,
		AppName:    DefaultAppName,
	}
}

// ResolveConnection builds the connection configuration.
// Precedence: environment variable > pgload.yaml connection section > default.
// project may be nil.
func ResolveConnection(getenv Getenv, project *ProjectConfig) (*pgload.ConnectionConfig, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := DefaultConnection()

	if project != nil {
		applyFileConnection(cfg, &project.Connection)
		if project.Connection.AuthMethod != "" {
			m, err := pgload.ParseAuthMethod(project.Connection.AuthMethod)
			if err != nil {
				return nil, fmt.Errorf("pgload.yaml connection.auth_method: %w", err)
			}
			cfg.AuthMethod = m
		}
	}

	setString(&cfg.Host, getenv(EnvHost))
	setString(&cfg.Database, getenv(EnvDatabase))
	setString(&cfg.Username, getenv(EnvUser))
	setString(&cfg.Password, getenv(EnvPassword))
	setString(&cfg.SSLMode, getenv(EnvSSLMode))
	setString(&cfg.AWSRegion, getenv(EnvAWSRegion))
	setString(&cfg.AzureTenantID, getenv(EnvAzureTenantID))
	setString(&cfg.AzureClientID, getenv(EnvAzureClientID))
	setString(&cfg.AzureClientSecret, getenv(EnvAzureSecret))
	setString(&cfg.GoogleInstance, getenv(EnvGoogleInstance))

	if v := getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("%s=%q is not a valid port: %w", EnvPort, v, pgload.ErrInvalidConfig)
		}
		cfg.Port = port
	}

	if v := getenv(EnvAuthMethod); v != "" {
		m, err := pgload.ParseAuthMethod(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvAuthMethod, err)
		}
		cfg.AuthMethod = m
	}

	return cfg, nil
}

// Environ renders cfg as POSTGRES_* assignments for child processes,
// so tools such as dbt read the same target as the loader.
func Environ(cfg *pgload.ConnectionConfig) []string {
	return []string{
		EnvHost + "=" + cfg.Host,
		EnvPort + "=" + strconv.Itoa(cfg.Port),
		EnvDatabase + "=" + cfg.Database,
		EnvUser + "=" + cfg.Username,
		EnvPassword + "=" + cfg.Password,
		EnvSSLMode + "=" + cfg.SSLMode,
	}
}

func applyFileConnection(cfg *pgload.ConnectionConfig, fc *ConnectionConfig) {
	setString(&cfg.Host, fc.Host)
	setString(&cfg.Database, fc.Database)
	setString(&cfg.Username, fc.Username)
	setString(&cfg.SSLMode, fc.SSLMode)
	setString(&cfg.AWSRegion, fc.AWSRegion)
	setString(&cfg.AzureTenantID, fc.AzureTenantID)
	setString(&cfg.AzureClientID, fc.AzureClientID)
	setString(&cfg.GoogleInstance, fc.GoogleInstance)
	if fc.Port != 0 {
		cfg.Port = fc.Port
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
