// Package config loads rulescope configuration: scalar tool settings
// passed through to downstream tooling, plus the lint policy sections the
// resolver consumes. Loading is all-or-nothing; any validation failure
// aborts with a coded error rather than falling back to a partial config.
package config

import (
	"sort"

	"github.com/rulescope/rulescope/pkg/catalog"
	"github.com/rulescope/rulescope/pkg/policy"
)

// Settings is the full parsed configuration
type Settings struct {
	// Passthrough scalars, not interpreted by the resolver.
	LineLength    int    `koanf:"line-length" toml:"line-length" yaml:"line-length" json:"line-length"`
	TargetVersion string `koanf:"target-version" toml:"target-version" yaml:"target-version" json:"target-version"`
	CacheDir      string `koanf:"cache-dir" toml:"cache-dir" yaml:"cache-dir" json:"cache-dir"`
	UnsafeFixes   bool   `koanf:"unsafe-fixes" toml:"unsafe-fixes" yaml:"unsafe-fixes" json:"unsafe-fixes"`

	Lint   Lint   `koanf:"lint" toml:"lint" yaml:"lint" json:"lint"`
	Format Format `koanf:"format" toml:"format" yaml:"format" json:"format"`

	// Source is the path of the loaded file, empty for builtin defaults
	Source string `koanf:"-" toml:"-" yaml:"-" json:"-"`
}

// Lint holds the resolver-facing configuration
type Lint struct {
	Select []string `koanf:"select" toml:"select" yaml:"select" json:"select"`
	Ignore []string `koanf:"ignore" toml:"ignore" yaml:"ignore" json:"ignore"`

	// PerFileIgnores maps glob patterns to additional suppression lists.
	// It is filled outside koanf because glob keys contain the koanf key
	// delimiter; see loader.go.
	PerFileIgnores map[string][]string `koanf:"-" toml:"per-file-ignores" yaml:"per-file-ignores" json:"per-file-ignores"`
}

// Format holds formatter preferences, passed through unchanged
type Format struct {
	QuoteStyle  string `koanf:"quote-style" toml:"quote-style" yaml:"quote-style" json:"quote-style"`
	IndentStyle string `koanf:"indent-style" toml:"indent-style" yaml:"indent-style" json:"indent-style"`
	LineEnding  string `koanf:"line-ending" toml:"line-ending" yaml:"line-ending" json:"line-ending"`
}

// Overrides returns the per-file ignore table as an ordered override
// list. The config table carries no order, so patterns are sorted
// lexicographically to keep resolution and diagnostics reproducible
// across loads.
func (s *Settings) Overrides() []policy.Override {
	patterns := make([]string, 0, len(s.Lint.PerFileIgnores))
	for pattern := range s.Lint.PerFileIgnores {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)

	overrides := make([]policy.Override, 0, len(patterns))
	for _, pattern := range patterns {
		overrides = append(overrides, policy.Override{
			Pattern: pattern,
			Ignore:  s.Lint.PerFileIgnores[pattern],
		})
	}
	return overrides
}

// Policy builds the resolver policy from the lint sections
func (s *Settings) Policy(cat *catalog.Catalog) (*policy.Policy, error) {
	return policy.Load(s.Lint.Select, s.Lint.Ignore, s.Overrides(), cat)
}
