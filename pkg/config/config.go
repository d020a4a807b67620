// Package config builds the run configuration for dashctl. Values come from
// the environment first, then an optional dashboard.yaml, then defaults; the
// resolved Config is constructed once at process start and passed down
// explicitly.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied when neither environment nor file provide a value.
const (
	DefaultOwner      = "jinhae8971"
	DefaultRepo       = "stock-dashboard"
	DefaultBranch     = "main"
	DefaultPagesPath  = "/"
	DefaultWorkflow   = "update.yml"
	DefaultSecretName = "ANTHROPIC_API_KEY"
	DefaultDataPath   = "data/market_data.json"
)

// Environment variable names.
const (
	EnvGitHubToken     = "GITHUB_TOKEN"
	EnvGitHubOwner     = "GITHUB_OWNER"
	EnvGitHubRepo      = "GITHUB_REPO"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
)

// Config holds everything a dashctl run needs.
type Config struct {
	Owner       string `yaml:"owner"`
	Repo        string `yaml:"repo"`
	Private     bool   `yaml:"private"`
	Description string `yaml:"description"`

	Branch    string `yaml:"branch"`
	PagesPath string `yaml:"pages_path"`

	SecretName string `yaml:"secret_name"`
	Workflow   string `yaml:"workflow"`
	DataPath   string `yaml:"data_path"`

	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load resolves the configuration. path names an optional YAML file; a missing
// file is not an error, a malformed one is.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	// Environment wins over the file.
	if v := os.Getenv(EnvGitHubOwner); v != "" {
		cfg.Owner = v
	}
	if v := os.Getenv(EnvGitHubRepo); v != "" {
		cfg.Repo = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Owner == "" {
		c.Owner = DefaultOwner
	}
	if c.Repo == "" {
		c.Repo = DefaultRepo
	}
	if c.Branch == "" {
		c.Branch = DefaultBranch
	}
	if c.PagesPath == "" {
		c.PagesPath = DefaultPagesPath
	}
	if c.SecretName == "" {
		c.SecretName = DefaultSecretName
	}
	if c.Workflow == "" {
		c.Workflow = DefaultWorkflow
	}
	if c.DataPath == "" {
		c.DataPath = DefaultDataPath
	}
	if c.AuthorName == "" {
		c.AuthorName = c.Owner
	}
	if c.AuthorEmail == "" {
		c.AuthorEmail = fmt.Sprintf("%s@users.noreply.github.com", c.Owner)
	}
}
