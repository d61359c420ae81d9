// Package styles defines the visual styling for rulescope's terminal
// output. All styles use semantic names and adaptive colors that adjust
// to light and dark terminal themes; command code refers to styles by
// name and never constructs colors inline.
package styles

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

//go:embed embedded/styles.yaml
var defaultStyles []byte

// ColorDef represents an adaptive color definition in YAML
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef represents a style definition in YAML
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	Background string `yaml:"background,omitempty"`
}

// Config represents the complete styles configuration
type Config struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

var (
	once     sync.Once
	registry map[string]lipgloss.Style
)

// GetStyle returns a style by semantic name. Unknown names return the
// zero style so callers render plain text rather than fail.
func GetStyle(name string) lipgloss.Style {
	once.Do(load)

	if s, ok := registry[name]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

func load() {
	var cfg Config
	if err := yaml.Unmarshal(defaultStyles, &cfg); err != nil {
		panic(fmt.Sprintf("embedded styles are malformed: %v", err))
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(cfg.Colors))
	for name, def := range cfg.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	registry = make(map[string]lipgloss.Style, len(cfg.Styles))
	for name, def := range cfg.Styles {
		s := lipgloss.NewStyle()
		if def.Bold {
			s = s.Bold(true)
		}
		if def.Italic {
			s = s.Italic(true)
		}
		if def.Underline {
			s = s.Underline(true)
		}
		if fg := resolveColor(colors, def.Foreground); fg != nil {
			s = s.Foreground(fg)
		}
		if bg := resolveColor(colors, def.Background); bg != nil {
			s = s.Background(bg)
		}
		registry[name] = s
	}
}

// resolveColor maps a named adaptive color or a literal ANSI value
func resolveColor(colors map[string]lipgloss.AdaptiveColor, name string) lipgloss.TerminalColor {
	if name == "" {
		return nil
	}
	if c, ok := colors[name]; ok {
		return c
	}
	return lipgloss.Color(name)
}
