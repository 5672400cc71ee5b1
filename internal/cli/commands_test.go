package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/pgload/internal/config"
	"github.com/vvka-141/pgload/internal/tui"
	"github.com/vvka-141/pgload/pkg/pgload"
)

// isolate clears connection variables and points --config at a missing file
// so built-in defaults apply.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range []string{
		config.EnvHost, config.EnvPort, config.EnvDatabase, config.EnvUser,
		config.EnvPassword, config.EnvSSLMode, config.EnvAuthMethod,
	} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
	return filepath.Join(t.TempDir(), "absent.yaml")
}

func resetLoadFlags() {
	loadFlags = loadFlagValues{table: pgload.DefaultTable, config: pgload.DefaultConfigFile, batchSize: pgload.DefaultBatchSize}
}

func resetRunFlags() {
	runFlags = runFlagValues{config: pgload.DefaultConfigFile}
}

func TestLoadCmd_ArgsValidation(t *testing.T) {
	err := loadCmd.Args(loadCmd, []string{})
	require.Error(t, err)
	assert.Equal(t, pgload.ExitUsageError, pgload.ExitCodeForError(err))
}

func TestLoadCmd_MissingFileBeforeConnecting(t *testing.T) {
	cfgPath := isolate(t)
	resetLoadFlags()
	loadFlags.config = cfgPath
	// nothing listens here; a connection attempt would surface as exit 11
	t.Setenv(config.EnvPort, "1")

	err := runLoad(loadCmd, []string{"/nonexistent/events_abc123.jsonl"})
	require.Error(t, err)
	assert.ErrorIs(t, err, pgload.ErrInputNotFound)
	assert.Equal(t, pgload.ExitInputNotFound, pgload.ExitCodeForError(err))
}

func TestLoadCmd_InvalidPort(t *testing.T) {
	cfgPath := isolate(t)
	resetLoadFlags()
	loadFlags.config = cfgPath
	t.Setenv(config.EnvPort, "not-a-port")

	err := runLoad(loadCmd, []string{"events.jsonl"})
	assert.Equal(t, pgload.ExitConfigError, pgload.ExitCodeForError(err))
}

func TestLoadCmd_InvalidTable(t *testing.T) {
	cfgPath := isolate(t)
	resetLoadFlags()
	loadFlags.config = cfgPath
	loadFlags.table = "a.b.c"

	events := filepath.Join(t.TempDir(), "e.jsonl")
	require.NoError(t, writeFile(events, "{}\n"))

	err := runLoad(loadCmd, []string{events})
	assert.ErrorIs(t, err, pgload.ErrInvalidConfig)
}

func TestRunCmd_DryRunPrintsPlan(t *testing.T) {
	cfgPath := isolate(t)
	resetRunFlags()
	runFlags.config = cfgPath
	runFlags.dryRun = true

	var out bytes.Buffer
	runCmd.SetOut(&out)
	t.Cleanup(func() { runCmd.SetOut(nil) })

	require.NoError(t, runPipeline(runCmd, nil))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "1. truncate [truncate]", lines[0])
	assert.Equal(t, "2. seed [command]: dbt seed --profiles-dir .. (in dbt)", lines[1])
	assert.Equal(t, "7. export [export]", lines[6])
}

func TestRunCmd_DryRunOnly(t *testing.T) {
	cfgPath := isolate(t)
	resetRunFlags()
	runFlags.config = cfgPath
	runFlags.dryRun = true
	runFlags.only = []string{"export", "truncate"}

	var out bytes.Buffer
	runCmd.SetOut(&out)
	t.Cleanup(func() { runCmd.SetOut(nil) })

	require.NoError(t, runPipeline(runCmd, nil))
	assert.Equal(t, "1. truncate [truncate]\n2. export [export]\n", out.String())
}

func TestRunCmd_UnknownStep(t *testing.T) {
	cfgPath := isolate(t)
	resetRunFlags()
	runFlags.config = cfgPath
	runFlags.only = []string{"deploy"}

	err := runPipeline(runCmd, nil)
	assert.Equal(t, pgload.ExitConfigError, pgload.ExitCodeForError(err))
}

func TestRunCmd_LoadStepNeedsEvents(t *testing.T) {
	cfgPath := isolate(t)
	resetRunFlags()
	runFlags.config = cfgPath
	runFlags.only = []string{"load"}

	err := runPipeline(runCmd, nil)
	require.Error(t, err)
	assert.Equal(t, pgload.ExitUsageError, pgload.ExitCodeForError(err))
}

func TestRunCmd_MissingEventsFile(t *testing.T) {
	cfgPath := isolate(t)
	resetRunFlags()
	runFlags.config = cfgPath
	runFlags.events = "/nonexistent/events_abc123.jsonl"

	err := runPipeline(runCmd, nil)
	assert.Equal(t, pgload.ExitInputNotFound, pgload.ExitCodeForError(err))
}

func TestRunCmd_InvalidProjectFile(t *testing.T) {
	isolate(t)
	resetRunFlags()
	bad := filepath.Join(t.TempDir(), "pgload.yaml")
	require.NoError(t, writeFile(bad, "marts: [\n"))
	runFlags.config = bad
	runFlags.dryRun = true

	err := runPipeline(runCmd, nil)
	assert.Equal(t, pgload.ExitConfigError, pgload.ExitCodeForError(err))
}

func TestTruncateCmd_NonInteractiveRequiresForce(t *testing.T) {
	cfgPath := isolate(t)
	t.Setenv(tui.NonInteractiveEnv, "1")
	truncateFlags = truncateFlagValues{config: cfgPath}

	err := runTruncate(truncateCmd, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, pgload.ErrApprovalDenied)
	assert.Equal(t, pgload.ExitApprovalDenied, pgload.ExitCodeForError(err))
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"load", "run", "truncate", "export", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}
