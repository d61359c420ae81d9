package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format identifies an output rendering mode
type Format int

const (
	// FormatAuto picks terminal or plain output based on the environment
	FormatAuto Format = iota
	// FormatTerminal renders styled terminal output
	FormatTerminal
	// FormatText renders plain text without styling
	FormatText
	// FormatJSON renders machine-readable JSON
	FormatJSON
	// FormatYAML renders machine-readable YAML
	FormatYAML
)

// ParseFormat parses a string into a Format value
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return FormatAuto, nil
	case "term", "terminal":
		return FormatTerminal, nil
	case "text", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatAuto, fmt.Errorf("unknown format: %s", s)
	}
}

// DetectFormat resolves FormatAuto against environment and terminal
// capabilities; other formats pass through unchanged.
func DetectFormat(format Format, out *os.File) Format {
	if format != FormatAuto {
		return format
	}

	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}

	if !isatty.IsTerminal(out.Fd()) && !isatty.IsCygwinTerminal(out.Fd()) {
		return FormatText
	}

	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}

	return FormatTerminal
}
