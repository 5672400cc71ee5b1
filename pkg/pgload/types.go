package pgload

import (
	"fmt"
	"strings"
	"time"
)

// ConnectionConfig holds everything needed to reach the destination database.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	AppName        string
	ConnectTimeout time.Duration

	// AWS RDS IAM (AuthMethodAWSIAM)
	AWSRegion string

	// Azure Entra ID (AuthMethodAzureEntraID).
	// If all three are provided, Service Principal authentication is used,
	// otherwise the DefaultAzureCredential chain.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// Google Cloud SQL instance connection name, project:region:instance (AuthMethodGoogleIAM)
	GoogleInstance string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// ParseAuthMethod maps the POSTGRES_AUTH_METHOD spelling to an AuthMethod.
// An empty string selects AuthMethodStandard.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "password":
		return AuthMethodStandard, nil
	case "aws", "aws-iam":
		return AuthMethodAWSIAM, nil
	case "google", "google-iam", "gcp":
		return AuthMethodGoogleIAM, nil
	case "azure", "entra", "azure-entra-id":
		return AuthMethodAzureEntraID, nil
	default:
		return AuthMethodStandard, fmt.Errorf("%q: %w", s, ErrUnsupportedAuthMethod)
	}
}

// Record is one non-blank line of an events file, stored unparsed,
// paired with the base name of the file it came from.
type Record struct {
	Data       string
	SourceFile string
}

// LoadState tracks a single loader invocation.
type LoadState int

const (
	LoadNotStarted LoadState = iota
	LoadInserting
	LoadDone
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadNotStarted:
		return "not started"
	case LoadInserting:
		return "inserting"
	case LoadDone:
		return "done"
	case LoadFailed:
		return "failed"
	default:
		return fmt.Sprintf("LoadState(%d)", int(s))
	}
}

// LoadResult summarizes what a loader invocation committed.
// On failure Rows and Batches count only committed batches.
type LoadResult struct {
	Table      string
	SourceFile string
	Rows       int64
	Batches    int
	State      LoadState
	Duration   time.Duration
}
