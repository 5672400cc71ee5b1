package pgload_test

import (
	"errors"
	"testing"

	"github.com/vvka-141/pgload/pkg/pgload"
)

func TestParseAuthMethod(t *testing.T) {
	tests := []struct {
		in   string
		want pgload.AuthMethod
	}{
		{"", pgload.AuthMethodStandard},
		{"standard", pgload.AuthMethodStandard},
		{"AWS-IAM", pgload.AuthMethodAWSIAM},
		{"google-iam", pgload.AuthMethodGoogleIAM},
		{" azure ", pgload.AuthMethodAzureEntraID},
	}
	for _, tt := range tests {
		got, err := pgload.ParseAuthMethod(tt.in)
		if err != nil {
			t.Fatalf("ParseAuthMethod(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseAuthMethod(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseAuthMethod_Unknown(t *testing.T) {
	_, err := pgload.ParseAuthMethod("kerberos")
	if !errors.Is(err, pgload.ErrUnsupportedAuthMethod) {
		t.Fatalf("expected ErrUnsupportedAuthMethod, got %v", err)
	}
}

func TestLoadState_String(t *testing.T) {
	if got := pgload.LoadFailed.String(); got != "failed" {
		t.Errorf("LoadFailed.String() = %q", got)
	}
	if got := pgload.LoadState(42).String(); got != "LoadState(42)" {
		t.Errorf("unknown state String() = %q", got)
	}
}
