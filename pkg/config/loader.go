package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	koanftoml "github.com/knadh/koanf/parsers/toml"
	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/rulescope/rulescope/pkg/errors"
	"github.com/rulescope/rulescope/pkg/logging"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix is the prefix for environment variable overrides
const EnvPrefix = "RULESCOPE_"

// EnvConfigPath overrides config file discovery entirely
const EnvConfigPath = "RULESCOPE_CONFIG"

// configFileNames are the discovery candidates, in order
var configFileNames = []string{
	"rulescope.toml",
	".rulescope.toml",
	"rulescope.yaml",
	"rulescope.yml",
}

// lintKeys is the closed set of keys allowed under [lint]
var lintKeys = map[string]bool{
	"select":           true,
	"ignore":           true,
	"per-file-ignores": true,
}

// DefaultTOML returns the embedded default configuration document
func DefaultTOML() string {
	return string(defaultConfig)
}

// Discover returns the path of the first configuration file found:
// $RULESCOPE_CONFIG, then the working directory candidates, then the XDG
// config directory. An empty result means builtin defaults apply.
func Discover() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}

	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}

	if path, err := xdg.SearchConfigFile(filepath.Join("rulescope", "rulescope.toml")); err == nil {
		return path
	}

	return ""
}

// Load reads the configuration at path, layered over embedded defaults
// with environment overrides on top. An empty path triggers Discover;
// no file at all is valid and yields the defaults.
func Load(path string) (*Settings, error) {
	logger := logging.GetLogger("config")

	if path == "" {
		path = Discover()
	}

	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultConfig), koanftoml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load builtin defaults")
	}

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
		}
	}

	// Scalar overrides: RULESCOPE_LINE_LENGTH=120 maps to line-length.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", "-")
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	settings := &Settings{Source: path}
	if err := k.Unmarshal("", settings); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "malformed configuration in %s", path)
	}
	settings.Source = path

	// Glob patterns contain the koanf key delimiter, so the per-file
	// table comes from a direct parse of the file instead.
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read config from %s", path)
		}
		if err := fillLintTable(settings, raw, isYAMLPath(path)); err != nil {
			return nil, err
		}
	}

	logger.Debug().
		Str("source", sourceName(path)).
		Int("select", len(settings.Lint.Select)).
		Int("ignore", len(settings.Lint.Ignore)).
		Int("perFileIgnores", len(settings.Lint.PerFileIgnores)).
		Msg("Loaded configuration")

	return settings, nil
}

// parserFor picks the koanf parser for a config file path
func parserFor(path string) (koanf.Parser, error) {
	switch filepath.Ext(path) {
	case ".toml":
		return koanftoml.Parser(), nil
	case ".yaml", ".yml":
		return koanfyaml.Parser(), nil
	default:
		return nil, errors.Newf(errors.ErrConfigLoad, "unsupported config format %q", filepath.Ext(path))
	}
}

func isYAMLPath(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}

func sourceName(path string) string {
	if path == "" {
		return "builtin-defaults"
	}
	return path
}

// rawLintDoc is the narrow document shape used to read the [lint] table
// with exact keys.
type rawLintDoc struct {
	Lint map[string]interface{} `toml:"lint" yaml:"lint"`
}

// fillLintTable validates [lint] keys and extracts per-file-ignores
func fillLintTable(settings *Settings, raw []byte, isYAML bool) error {
	var doc rawLintDoc
	var err error
	if isYAML {
		err = yaml.Unmarshal(raw, &doc)
	} else {
		err = toml.Unmarshal(raw, &doc)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "malformed configuration in %s", settings.Source)
	}

	for key := range doc.Lint {
		if !lintKeys[key] {
			return errors.Newf(errors.ErrConfigValid, "unknown key %q in [lint]", key)
		}
	}

	table, ok := doc.Lint["per-file-ignores"]
	if !ok {
		return nil
	}

	entries, ok := asStringKeyMap(table)
	if !ok {
		return errors.New(errors.ErrConfigValid, "[lint.per-file-ignores] must be a table of pattern to rule list")
	}

	out := make(map[string][]string, len(entries))
	for pattern, value := range entries {
		list, ok := asStringList(value)
		if !ok {
			return errors.Newf(errors.ErrConfigValid,
				"[lint.per-file-ignores] entry %q must be a list of rule or group identifiers", pattern)
		}
		out[pattern] = list
	}

	settings.Lint.PerFileIgnores = out
	return nil
}

// asStringKeyMap normalizes decoder map shapes to string keys
func asStringKeyMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for key, value := range m {
			s, ok := key.(string)
			if !ok {
				return nil, false
			}
			out[s] = value
		}
		return out, true
	default:
		return nil, false
	}
}

// asStringList converts a decoded config value to a string slice
func asStringList(v interface{}) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
