package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/pgload/pkg/pgload"
)

func envMap(m map[string]string) Getenv {
	return func(key string) string { return m[key] }
}

func TestResolveConnection_Defaults(t *testing.T) {
	cfg, err := ResolveConnection(envMap(nil), nil)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "podcast_analytics", cfg.Database)
	assert.Equal(t, "podcast", cfg.Username)
	assert.Equal(t, "podcast", cfg.Password)
	assert.Equal(t, "prefer", cfg.SSLMode)
	assert.Equal(t, pgload.AuthMethodStandard, cfg.AuthMethod)
}

func TestResolveConnection_EnvOverrides(t *testing.T) {
	cfg, err := ResolveConnection(envMap(map[string]string{
		EnvHost:       "db.internal",
		EnvPort:       "6543",
		EnvDatabase:   "events",
		EnvUser:       "etl",
		EnvPassword:   "s3cret",
		EnvSSLMode:    "require",
		EnvAuthMethod: "azure",
	}), nil)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, "events", cfg.Database)
	assert.Equal(t, "etl", cfg.Username)
	assert.Equal(t, "s3cret", cfg.Password)
	assert.Equal(t, "require", cfg.SSLMode)
	assert.Equal(t, pgload.AuthMethodAzureEntraID, cfg.AuthMethod)
}

func TestResolveConnection_EnvBeatsProjectFile(t *testing.T) {
	project := Default()
	project.Connection = ConnectionConfig{Host: "from-file", Port: 7000, Database: "filedb", AuthMethod: "google-iam"}

	cfg, err := ResolveConnection(envMap(map[string]string{EnvHost: "from-env"}), project)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Host)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "filedb", cfg.Database)
	assert.Equal(t, pgload.AuthMethodGoogleIAM, cfg.AuthMethod)
}

func TestResolveConnection_InvalidPort(t *testing.T) {
	for _, port := range []string{"abc", "0", "70000"} {
		_, err := ResolveConnection(envMap(map[string]string{EnvPort: port}), nil)
		assert.ErrorIs(t, err, pgload.ErrInvalidConfig, "port %q", port)
	}
}

func TestResolveConnection_UnknownAuthMethod(t *testing.T) {
	_, err := ResolveConnection(envMap(map[string]string{EnvAuthMethod: "kerberos"}), nil)
	assert.ErrorIs(t, err, pgload.ErrUnsupportedAuthMethod)
}

func TestEnviron(t *testing.T) {
	env := Environ(DefaultConnection())
	assert.Contains(t, env, "POSTGRES_HOST=localhost")
	assert.Contains(t, env, "POSTGRES_PORT=5432")
	assert.Contains(t, env, "POSTGRES_DB=podcast_analytics")
	assert.Contains(t, env, "POSTGRES_SSLMODE=prefer")
}

func TestEnviron_ForwardsResolvedSSLModeFromProjectFile(t *testing.T) {
	project := Default()
	project.Connection.SSLMode = "require"

	conn, err := ResolveConnection(func(string) string { return "" }, project)
	require.NoError(t, err)

	env := Environ(conn)
	assert.Contains(t, env, "POSTGRES_SSLMODE=require")
	assert.NotContains(t, env, "POSTGRES_SSLMODE=prefer")
}

func TestLoadDotEnv_DoesNotOverrideProcessEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("PGLOAD_DOTENV_A=file\nPGLOAD_DOTENV_B=file\n"), 0644))

	t.Setenv("PGLOAD_DOTENV_A", "process")
	t.Setenv("PGLOAD_DOTENV_B", "")
	require.NoError(t, os.Unsetenv("PGLOAD_DOTENV_B"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "process", os.Getenv("PGLOAD_DOTENV_A"))
	assert.Equal(t, "file", os.Getenv("PGLOAD_DOTENV_B"))
}

func TestLoadDotEnv_MissingFileIsFine(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
}
