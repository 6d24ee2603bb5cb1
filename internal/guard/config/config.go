// Package config loads the declarative guard pipeline configuration.
// The core evaluator is configuration-agnostic; this package only decides
// which checkers run in which phase and with what bounds.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// RewritePolicyFirstWins is the only rewrite conflict policy currently
// implemented: the first registered checker to propose a rewrite wins and
// later conflicting rewrites are logged.
const RewritePolicyFirstWins = "first-wins"

// Duration wraps time.Duration with YAML string parsing ("3s", "500ms").
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}

	*d = Duration(parsed)
	return nil
}

// Config controls which checkers run and how the pipeline is bounded.
type Config struct {
	// Timeout bounds each pipeline run; checkers still pending at the
	// deadline are treated as allow.
	Timeout Duration `yaml:"timeout"`

	// AuditLog is the path of the operator audit log file.
	AuditLog string `yaml:"audit_log"`

	// RewritePolicy names the conflict policy for competing rewrites.
	RewritePolicy string `yaml:"rewrite_policy"`

	// PreCheckers and PostCheckers name the enabled checkers per phase,
	// in registration (and therefore reporting) order.
	PreCheckers  []string `yaml:"pre_checkers"`
	PostCheckers []string `yaml:"post_checkers"`
}

// Default returns the configuration used when no config file exists:
// every checker enabled, in a fixed order.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return &Config{
		Timeout:       Duration(3 * time.Second),
		AuditLog:      filepath.Join(home, ".agent-guard", "audit.log"),
		RewritePolicy: RewritePolicyFirstWins,
		PreCheckers: []string{
			"audit-log",
			"dangerous-command",
			"no-verify",
			"secrets",
			"import-conventions",
			"migration-guard",
			"route-conventions",
			"modern-tools",
			"search-year",
		},
		PostCheckers: []string{
			"auto-format",
			"dependency-audit",
		},
	}
}

// Load reads the configuration file at path, falling back to Default when
// the file does not exist. Fields left unset in the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.RewritePolicy != RewritePolicyFirstWins {
		return nil, fmt.Errorf("unsupported rewrite policy %q", cfg.RewritePolicy)
	}

	return cfg, nil
}
