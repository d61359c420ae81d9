// Package output renders resolver results for humans and machines.
// Terminal output goes through the semantic style registry; JSON and
// YAML forms are stable and meant for scripting.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rulescope/rulescope/pkg/output/styles"
	"github.com/rulescope/rulescope/pkg/policy"
)

// FileRules is the serializable result of resolving one file
type FileRules struct {
	Path  string   `json:"path" yaml:"path"`
	Rules []string `json:"rules" yaml:"rules"`
}

// Renderer writes resolver results in a chosen format
type Renderer struct {
	format Format
	out    io.Writer
}

// NewRenderer creates a renderer for the given format and writer
func NewRenderer(format Format, out io.Writer) *Renderer {
	return &Renderer{format: format, out: out}
}

// RuleSets renders resolved rule sets for one or more files
func (r *Renderer) RuleSets(results []FileRules) error {
	switch r.format {
	case FormatJSON:
		return r.writeJSON(results)
	case FormatYAML:
		return r.writeYAML(results)
	default:
		return r.ruleSetsText(results, r.format == FormatTerminal)
	}
}

// Decision renders one explain result
func (r *Renderer) Decision(path string, d policy.Decision) error {
	switch r.format {
	case FormatJSON:
		return r.writeJSON(struct {
			Path string `json:"path"`
			policy.Decision
		}{Path: path, Decision: d})
	case FormatYAML:
		return r.writeYAML(struct {
			Path string `yaml:"path"`
			policy.Decision `yaml:",inline"`
		}{Path: path, Decision: d})
	default:
		return r.decisionText(path, d, r.format == FormatTerminal)
	}
}

func (r *Renderer) ruleSetsText(results []FileRules, styled bool) error {
	pathStyle := styles.GetStyle("Path")
	ruleStyle := styles.GetStyle("Active")

	for i, res := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(r.out); err != nil {
				return err
			}
		}

		header := res.Path
		if styled {
			header = pathStyle.Render(header)
		}
		if _, err := fmt.Fprintf(r.out, "%s (%d rules)\n", header, len(res.Rules)); err != nil {
			return err
		}

		if len(res.Rules) == 0 {
			continue
		}

		line := strings.Join(res.Rules, " ")
		if styled {
			line = ruleStyle.Render(line)
		}
		if _, err := fmt.Fprintf(r.out, "  %s\n", line); err != nil {
			return err
		}
	}

	return nil
}

func (r *Renderer) decisionText(path string, d policy.Decision, styled bool) error {
	status := d.Status.String()
	detail := ""

	if styled {
		switch d.Status {
		case policy.StatusActive:
			status = styles.GetStyle("Active").Render(status)
		case policy.StatusOverridden:
			status = styles.GetStyle("Suppressed").Render(status)
		default:
			status = styles.GetStyle("Muted").Render(status)
		}
	}

	if d.Status == policy.StatusOverridden {
		pattern := d.Pattern
		if styled {
			pattern = styles.GetStyle("Pattern").Render(pattern)
		}
		detail = fmt.Sprintf(" (by %s)", pattern)
	}

	_, err := fmt.Fprintf(r.out, "%s %s: %s%s\n", d.Rule, path, status, detail)
	return err
}

func (r *Renderer) writeJSON(v interface{}) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Renderer) writeYAML(v interface{}) error {
	enc := yaml.NewEncoder(r.out)
	defer func() { _ = enc.Close() }()
	return enc.Encode(v)
}
