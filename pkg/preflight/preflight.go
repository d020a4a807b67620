// Package preflight validates the local environment before a provisioning run
// touches GitHub. Errors block the run; warnings are printed and ignored.
package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jinhae8971/stock-dashboard/pkg/log"
)

// CheckLevel represents the severity of a check result.
type CheckLevel int

const (
	// LevelError blocks the run.
	LevelError CheckLevel = iota
	// LevelWarn is reported but does not block.
	LevelWarn
	// LevelInfo is informational output.
	LevelInfo
)

// CheckResult is the outcome of a single check.
type CheckResult struct {
	Name    string
	Level   CheckLevel
	Message string
	Error   error
}

// Check is a single preflight check.
type Check interface {
	Name() string
	Run(ctx context.Context) CheckResult
}

// Checker runs a collection of checks.
type Checker struct {
	checks  []Check
	skipped bool
	quiet   bool
}

// Config selects which checks to run.
type Config struct {
	// Skip disables all checks.
	Skip bool
	// Quiet suppresses info-level messages.
	Quiet bool

	// ContentDir is the directory about to be published.
	ContentDir string
	// DataPath is the snapshot path relative to ContentDir.
	DataPath string

	// CheckToken verifies a GitHub token is reachable from the environment.
	CheckToken bool
	// CheckAPIKey verifies the Anthropic key used for strategy generation.
	CheckAPIKey bool
}

// NewChecker builds a checker from cfg.
func NewChecker(cfg Config) *Checker {
	c := &Checker{skipped: cfg.Skip, quiet: cfg.Quiet}

	if cfg.CheckToken {
		c.checks = append(c.checks, &TokenCheck{})
	}
	if cfg.CheckAPIKey {
		c.checks = append(c.checks, &APIKeyCheck{})
	}
	if cfg.ContentDir != "" {
		c.checks = append(c.checks, &ContentDirCheck{Dir: cfg.ContentDir})
		if cfg.DataPath != "" {
			c.checks = append(c.checks, &DataPathCheck{Dir: cfg.ContentDir, Path: cfg.DataPath})
		}
	}
	return c
}

// Run executes every registered check and returns a combined error when any
// check failed at LevelError.
func (c *Checker) Run(ctx context.Context) error {
	if c.skipped {
		log.Info("preflight checks skipped")
		return nil
	}

	var failures []string
	var warnings int

	for _, check := range c.checks {
		result := check.Run(ctx)

		switch result.Level {
		case LevelError:
			log.Error("preflight check failed", "check", result.Name, "message", result.Message)
			failures = append(failures, fmt.Sprintf("%s: %s", result.Name, result.Message))
		case LevelWarn:
			log.Warn("preflight check warning", "check", result.Name, "message", result.Message)
			warnings++
		case LevelInfo:
			if !c.quiet {
				log.Info("preflight check", "check", result.Name, "message", result.Message)
			}
		}
	}

	if warnings > 0 {
		log.Info("preflight warnings", "count", warnings)
	}
	if len(failures) > 0 {
		return fmt.Errorf("preflight checks failed:\n  - %s", strings.Join(failures, "\n  - "))
	}
	return nil
}

// TokenCheck reports whether a GitHub token is present in the environment and
// whether it looks like one GitHub would issue.
type TokenCheck struct{}

func (c *TokenCheck) Name() string { return "github-token" }

func (c *TokenCheck) Run(ctx context.Context) CheckResult {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		token = os.Getenv("GH_TOKEN")
	}
	if token == "" {
		return CheckResult{
			Name:    c.Name(),
			Level:   LevelWarn,
			Message: "no GITHUB_TOKEN in the environment, the token will be prompted for",
		}
	}
	if !knownTokenPrefix(token) {
		return CheckResult{
			Name:    c.Name(),
			Level:   LevelWarn,
			Message: "token does not look like a GitHub personal access token",
		}
	}
	return CheckResult{Name: c.Name(), Level: LevelInfo, Message: "token found in environment"}
}

func knownTokenPrefix(token string) bool {
	for _, p := range []string{"ghp_", "github_pat_", "gho_", "ghs_"} {
		if strings.HasPrefix(token, p) {
			return true
		}
	}
	return false
}

// APIKeyCheck reports whether the Anthropic API key is present. Absence is a
// warning: the dashboard still works, the strategy panel shows a placeholder.
type APIKeyCheck struct{}

func (c *APIKeyCheck) Name() string { return "anthropic-key" }

func (c *APIKeyCheck) Run(ctx context.Context) CheckResult {
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		return CheckResult{
			Name:    c.Name(),
			Level:   LevelWarn,
			Message: "no ANTHROPIC_API_KEY in the environment, strategy generation will be disabled",
		}
	}
	return CheckResult{Name: c.Name(), Level: LevelInfo, Message: "API key found in environment"}
}

// ContentDirCheck verifies the publish directory exists, is not the
// filesystem root, and holds something worth publishing.
type ContentDirCheck struct {
	Dir string
}

func (c *ContentDirCheck) Name() string { return "content-dir" }

func (c *ContentDirCheck) Run(ctx context.Context) CheckResult {
	abs, err := filepath.Abs(c.Dir)
	if err != nil {
		return CheckResult{Name: c.Name(), Level: LevelError, Message: err.Error(), Error: err}
	}
	if isFilesystemRoot(abs) {
		return CheckResult{
			Name:    c.Name(),
			Level:   LevelError,
			Message: "refusing to publish the filesystem root",
		}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Level:   LevelError,
			Message: fmt.Sprintf("content directory %s does not exist", c.Dir),
			Error:   err,
		}
	}
	if !info.IsDir() {
		return CheckResult{
			Name:    c.Name(),
			Level:   LevelError,
			Message: fmt.Sprintf("%s is not a directory", c.Dir),
		}
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return CheckResult{Name: c.Name(), Level: LevelError, Message: err.Error(), Error: err}
	}
	hasIndex := false
	hasContent := false
	for _, e := range entries {
		if e.Name() == ".git" {
			continue
		}
		hasContent = true
		if e.Name() == "index.html" {
			hasIndex = true
		}
	}
	if !hasContent {
		return CheckResult{
			Name:    c.Name(),
			Level:   LevelError,
			Message: fmt.Sprintf("content directory %s is empty", c.Dir),
		}
	}
	if !hasIndex {
		return CheckResult{
			Name:    c.Name(),
			Level:   LevelWarn,
			Message: "no index.html found, Pages will serve a 404 at the site root",
		}
	}
	return CheckResult{Name: c.Name(), Level: LevelInfo, Message: "content directory looks publishable"}
}

// DataPathCheck verifies the snapshot path resolves inside the content
// directory so the update workflow writes into the published tree.
type DataPathCheck struct {
	Dir  string
	Path string
}

func (c *DataPathCheck) Name() string { return "data-path" }

func (c *DataPathCheck) Run(ctx context.Context) CheckResult {
	if filepath.IsAbs(c.Path) {
		return CheckResult{
			Name:    c.Name(),
			Level:   LevelError,
			Message: fmt.Sprintf("data path %s must be relative to the content directory", c.Path),
		}
	}
	abs, err := filepath.Abs(c.Dir)
	if err != nil {
		return CheckResult{Name: c.Name(), Level: LevelError, Message: err.Error(), Error: err}
	}
	if !containsPath(abs, filepath.Join(abs, c.Path)) {
		return CheckResult{
			Name:    c.Name(),
			Level:   LevelError,
			Message: fmt.Sprintf("data path %s escapes the content directory", c.Path),
		}
	}
	return CheckResult{Name: c.Name(), Level: LevelInfo, Message: "data path stays inside the content directory"}
}

// isFilesystemRoot reports whether path is the POSIX root or a Windows volume
// root.
func isFilesystemRoot(path string) bool {
	clean := filepath.Clean(path)
	if clean == string(filepath.Separator) {
		return true
	}
	volume := filepath.VolumeName(clean)
	return volume != "" && clean == volume+string(filepath.Separator)
}

// containsPath reports whether child is dir itself or lives under it.
func containsPath(dir, child string) bool {
	rel, err := filepath.Rel(dir, child)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
