package config

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// CredentialSource resolves a single credential value. Sources are chained so
// the provisioner itself never knows whether a value came from the
// environment or an interactive prompt.
type CredentialSource interface {
	// Credential returns the resolved value, or "" when this source has
	// nothing to offer.
	Credential() (string, error)
}

// EnvSource reads a credential from an environment variable.
type EnvSource struct {
	Var string
}

// Credential returns the variable's value, "" when unset.
func (s EnvSource) Credential() (string, error) {
	return os.Getenv(s.Var), nil
}

// PromptSource asks the operator for a value without echoing it.
type PromptSource struct {
	Label string
}

// Credential prompts on stderr and reads without echo.
func (s PromptSource) Credential() (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", nil
	}
	fmt.Fprintf(os.Stderr, "%s: ", s.Label)
	value, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", s.Label, err)
	}
	return string(value), nil
}

// StaticSource returns a fixed value; used by tests and flag overrides.
type StaticSource struct {
	Value string
}

// Credential returns the fixed value.
func (s StaticSource) Credential() (string, error) {
	return s.Value, nil
}

// Chain tries each source in order and returns the first non-empty value.
type Chain []CredentialSource

// Credential walks the chain.
func (c Chain) Credential() (string, error) {
	for _, source := range c {
		value, err := source.Credential()
		if err != nil {
			return "", err
		}
		if value != "" {
			return value, nil
		}
	}
	return "", nil
}

// TokenChain is the standard resolution order for the GitHub token.
func TokenChain() Chain {
	return Chain{
		EnvSource{Var: EnvGitHubToken},
		PromptSource{Label: "GitHub token"},
	}
}

// SecretChain is the standard resolution order for the dashboard secret value.
func SecretChain() Chain {
	return Chain{
		EnvSource{Var: EnvAnthropicAPIKey},
		PromptSource{Label: "Anthropic API key (enter to skip)"},
	}
}
