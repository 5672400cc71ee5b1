package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vvka-141/pgload/pkg/pgload"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ConnectionConfig is the optional connection section of pgload.yaml.
// Environment variables take precedence over every field.
type ConnectionConfig struct {
	Host           string `yaml:"host,omitempty"`
	Port           int    `yaml:"port,omitempty"`
	Database       string `yaml:"database,omitempty"`
	Username       string `yaml:"username,omitempty"`
	SSLMode        string `yaml:"sslmode,omitempty"`
	AuthMethod     string `yaml:"auth_method,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

// Mart is a downstream view exported to a CSV file.
type Mart struct {
	Name string `yaml:"name"`
	File string `yaml:"file,omitempty"`
}

// StepCommands overrides the shell commands of the external pipeline steps.
type StepCommands struct {
	Seed      string `yaml:"seed,omitempty"`
	Transform string `yaml:"transform,omitempty"`
	Observe   string `yaml:"observe,omitempty"`
	Report    string `yaml:"report,omitempty"`
}

// ProjectConfig describes the pipeline around the loader.
type ProjectConfig struct {
	Connection  ConnectionConfig `yaml:"connection"`
	DbtDir      string           `yaml:"dbt_dir"`
	ProfilesDir string           `yaml:"profiles_dir"`
	EventsTable string           `yaml:"events_table"`
	RawTables   []string         `yaml:"raw_tables"`
	ExportDir   string           `yaml:"export_dir"`
	Marts       []Mart           `yaml:"marts"`
	Steps       StepCommands     `yaml:"steps"`
}

// Default returns the layout of the podcast analytics project: dbt project in
// ./dbt with profiles one level up, three raw tables and two exported marts.
func Default() *ProjectConfig {
	return &ProjectConfig{
		DbtDir:      "dbt",
		ProfilesDir: "..",
		EventsTable: pgload.DefaultTable,
		RawTables:   []string{"raw_users", "raw_episodes", pgload.DefaultTable},
		ExportDir:   pgload.DefaultExportDir,
		Marts: []Mart{
			{Name: "mart_top_episodes"},
			{Name: "mart_user_session_metrics"},
		},
	}
}

// Load reads a project file and fills unset fields from Default().
func Load(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", filepath.Base(path), pgload.ErrInvalidConfig, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns Default() when the file is missing.
func LoadOrDefault(path string) (*ProjectConfig, error) {
	cfg, err := Load(path)
	if errors.Is(err, ErrConfigNotFound) {
		return Default(), nil
	}
	return cfg, err
}

func (c *ProjectConfig) applyDefaults() {
	d := Default()
	if c.DbtDir == "" {
		c.DbtDir = d.DbtDir
	}
	if c.ProfilesDir == "" {
		c.ProfilesDir = d.ProfilesDir
	}
	if c.EventsTable == "" {
		c.EventsTable = d.EventsTable
	}
	if c.RawTables == nil {
		c.RawTables = d.RawTables
	}
	if c.ExportDir == "" {
		c.ExportDir = d.ExportDir
	}
	if c.Marts == nil {
		c.Marts = d.Marts
	}
}

// Validate reports structural problems that would only surface mid-pipeline.
func (c *ProjectConfig) Validate() error {
	seen := make(map[string]bool, len(c.Marts))
	for i, m := range c.Marts {
		if m.Name == "" {
			return fmt.Errorf("marts[%d]: name is required: %w", i, pgload.ErrInvalidConfig)
		}
		if seen[m.Name] {
			return fmt.Errorf("mart %q listed twice: %w", m.Name, pgload.ErrInvalidConfig)
		}
		seen[m.Name] = true
	}
	for i, t := range c.RawTables {
		if t == "" {
			return fmt.Errorf("raw_tables[%d] is empty: %w", i, pgload.ErrInvalidConfig)
		}
	}
	return nil
}

// MartFile returns the CSV path for a mart inside the export directory.
func (c *ProjectConfig) MartFile(m Mart) string {
	if m.File != "" {
		if filepath.IsAbs(m.File) {
			return m.File
		}
		return filepath.Join(c.ExportDir, m.File)
	}
	return filepath.Join(c.ExportDir, m.Name+".csv")
}
