// Package config provides configuration management for the bqlint CLI.
//
// Configuration is layered: built-in defaults, then .bqlint.yaml, then
// BQLINT_* environment variables (a .env file in the project root is loaded
// first), then explicitly set command-line flags.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/bqlint/pkg/core"
	"github.com/leapstack-labs/bqlint/pkg/lint"
)

// Default values for configuration.
const (
	DefaultStateFile = ".bqlint/state.db"
	DefaultOutput    = "auto"
	DefaultDialect   = "bigquery"
)

// ConfigFileNames are the file names searched for, in order.
var ConfigFileNames = []string{".bqlint.yaml", ".bqlint.yml"}

// Config holds all CLI configuration options.
type Config struct {
	ProjectRoot  string      `koanf:"-"`
	Dialect      string      `koanf:"dialect"`
	StatePath    string      `koanf:"state_path"`
	Verbose      bool        `koanf:"verbose"`
	OutputFormat string      `koanf:"output"`
	Lint         *LintConfig `koanf:"lint"`
}

// LintConfig is the lint: section of .bqlint.yaml.
type LintConfig struct {
	// Disabled lists rule IDs that never run.
	Disabled []string `koanf:"disabled" yaml:"disabled,omitempty"`
	// Severity overrides the default severity per rule ID.
	Severity map[string]string `koanf:"severity" yaml:"severity,omitempty"`
	// Rules holds rule-specific options keyed by rule ID.
	Rules map[string]map[string]any `koanf:"rules" yaml:"rules,omitempty"`
}

// ToLintConfig converts the file representation into an analyzer config.
// Unknown severity names are an error.
func (l *LintConfig) ToLintConfig() (*lint.Config, error) {
	cfg := lint.NewConfig()
	if l == nil {
		return cfg, nil
	}

	for _, id := range l.Disabled {
		cfg.Disable(id)
	}

	ids := make([]string, 0, len(l.Severity))
	for id := range l.Severity {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		sev, ok := core.ParseSeverity(l.Severity[id])
		if !ok {
			return nil, fmt.Errorf("invalid severity %q for rule %s (want error, warning, info or hint)", l.Severity[id], strings.ToUpper(id))
		}
		cfg.SetSeverity(id, sev)
	}

	for id, opts := range l.Rules {
		cfg.SetRuleOptions(id, opts)
	}
	return cfg, nil
}
