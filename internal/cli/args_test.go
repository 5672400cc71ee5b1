package cli

import (
	"strings"
	"testing"

	"github.com/vvka-141/pgload/pkg/pgload"
)

func TestRequireEventsFile(t *testing.T) {
	if err := RequireEventsFile(loadCmd, []string{"events.jsonl"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := RequireEventsFile(loadCmd, nil)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "<file>") {
		t.Errorf("expected usage hint, got: %v", err)
	}
	if code := pgload.ExitCodeForError(err); code != pgload.ExitUsageError {
		t.Errorf("expected exit code %d, got %d", pgload.ExitUsageError, code)
	}

	err = RequireEventsFile(loadCmd, []string{"a", "b"})
	if err == nil {
		t.Fatal("expected error for too many args")
	}
	if code := pgload.ExitCodeForError(err); code != pgload.ExitUsageError {
		t.Errorf("expected exit code %d, got %d", pgload.ExitUsageError, code)
	}
}
