package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

type Config struct {
	// Catalog points to the local rule/control catalog (file or directory).
	Catalog CatalogConfig `yaml:"catalog"`

	// CatalogSource optionally syncs the catalog from a remote source,
	// replacing the local one on every successful sync.
	CatalogSource *CatalogSource `yaml:"catalog_source"`

	// Vendor is the default preferred cloud vendor for guidance resolution.
	// A per-request vendor (derived from answers) overrides it.
	Vendor string `yaml:"vendor"`

	Audit AuditConfig `yaml:"audit"`
}

type CatalogConfig struct {
	// Path is a YAML file or a directory of YAML files.
	Path string `yaml:"path"`
}

type CatalogSourceSync struct {
	Interval time.Duration `yaml:"interval"`
}

type GitHubSourceConfig struct {
	// AppID is the GitHub App ID.
	AppID int64 `yaml:"app_id"`

	// InstallationID is the GitHub App installation ID.
	InstallationID int64 `yaml:"installation_id"`

	// ServerURL is the GitHub Enterprise server URL.
	// For GitHub.com, this can be left empty.
	ServerURL string `yaml:"server"`

	// PrivateKey is the GitHub App private key in PEM format.
	PrivateKey string `yaml:"private_key"`

	// Owner of the GitHub repository holding the catalog.
	Owner string `yaml:"owner"`

	// Repo is the name of the GitHub repository.
	Repo string `yaml:"repo"`

	// Path is the directory path within the repository to load catalog
	// files from. For example, "catalog/".
	Path string `yaml:"path"`

	// Ref is the git reference to use (e.g. a branch).
	// For example, "main".
	Ref string `yaml:"ref"`
}

func (c *GitHubSourceConfig) Validate() error {
	if c.AppID == 0 {
		return fmt.Errorf("app_id is required")
	}
	if c.InstallationID == 0 {
		return fmt.Errorf("installation_id is required")
	}
	if c.PrivateKey == "" {
		return fmt.Errorf("private_key is required")
	}
	if c.Owner == "" {
		return fmt.Errorf("owner is required")
	}
	if c.Repo == "" {
		return fmt.Errorf("repo is required")
	}
	if c.Ref == "" {
		return fmt.Errorf("ref is required")
	}
	return nil
}

// CatalogSource holds configuration for the remote catalog source.
type CatalogSource struct {
	// GitHub holds configuration for GitHub as a catalog source.
	GitHub *GitHubSourceConfig `yaml:"github,omitempty"`

	Sync CatalogSourceSync `yaml:"sync"`
}

func (s *CatalogSource) Validate() error {
	switch {
	case s.GitHub != nil:
		if err := s.GitHub.Validate(); err != nil {
			return fmt.Errorf("validating GitHub catalog source: %w", err)
		}
	default:
		return fmt.Errorf("no valid catalog source configured")
	}
	return nil
}

// AuditConfig holds configuration for auditing.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Type    string `yaml:"type"` // e.g., "file", "memory"
}

// Load reads and parses the configuration file at the given path.
// It returns a Config struct or an error if loading/parsing/validation fails.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Catalog.Path == "" && c.CatalogSource == nil {
		return fmt.Errorf("either catalog.path or catalog_source must be configured")
	}
	if c.CatalogSource != nil {
		if err := c.CatalogSource.Validate(); err != nil {
			return fmt.Errorf("validating catalog source: %w", err)
		}
	}
	return nil
}
