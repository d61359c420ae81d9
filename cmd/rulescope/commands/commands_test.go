// TEST TYPE: Integration Test (command surface)
// DEPENDENCIES: temp config files, builtin catalog
// PURPOSE: Exercise the CLI end to end through the root command

package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulescope/rulescope/cmd/rulescope/commands"
	"github.com/rulescope/rulescope/pkg/output"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rulescope.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer

	rootCmd := commands.NewRootCmd()
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

const testConfig = `
[lint]
select = ["E", "F", "S"]
ignore = ["E501"]

[lint.per-file-ignores]
"tests/**/*.py" = ["S101"]
"__init__.py" = ["F401"]
`

func TestResolveCmd(t *testing.T) {
	cfg := writeConfig(t, testConfig)

	out, _, err := execute(t, "resolve", "--config", cfg, "--format", "json", "app/main.py")
	require.NoError(t, err)

	var results []output.FileRules
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)

	assert.Equal(t, "app/main.py", results[0].Path)
	assert.Contains(t, results[0].Rules, "E101")
	assert.Contains(t, results[0].Rules, "F401")
	assert.Contains(t, results[0].Rules, "S101")
	assert.NotContains(t, results[0].Rules, "E501")
}

func TestResolveCmd_PerFileOverride(t *testing.T) {
	cfg := writeConfig(t, testConfig)

	out, _, err := execute(t, "resolve", "--config", cfg, "--format", "json",
		"tests/unit/test_api.py", "pkg/__init__.py")
	require.NoError(t, err)

	var results []output.FileRules
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)

	assert.NotContains(t, results[0].Rules, "S101")
	assert.Contains(t, results[0].Rules, "F401")

	assert.NotContains(t, results[1].Rules, "F401")
	assert.Contains(t, results[1].Rules, "S101")
}

func TestResolveCmd_NoArgs(t *testing.T) {
	_, _, err := execute(t, "resolve")
	assert.Error(t, err)
}

func TestResolveCmd_BadConfig(t *testing.T) {
	cfg := writeConfig(t, `[lint]`+"\n"+`selct = ["E"]`)

	_, _, err := execute(t, "resolve", "--config", cfg, "app/main.py")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selct")
}

func TestExplainCmd(t *testing.T) {
	cfg := writeConfig(t, testConfig)

	tests := []struct {
		name   string
		path   string
		rule   string
		status string
	}{
		{"active rule", "app/main.py", "E101", "active"},
		{"not selected", "app/main.py", "B006", "not-selected"},
		{"unknown rule", "app/main.py", "ZZZ9", "not-selected"},
		{"globally ignored", "app/main.py", "E501", "globally-ignored"},
		{"overridden", "tests/unit/test_api.py", "S101", "overridden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, "explain", "--config", cfg, "--format", "json", tt.path, tt.rule)
			require.NoError(t, err)

			var decoded map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(out), &decoded))
			assert.Equal(t, tt.status, decoded["status"])
			assert.Equal(t, tt.rule, decoded["rule"])
		})
	}
}

func TestExplainCmd_ReportsPattern(t *testing.T) {
	cfg := writeConfig(t, testConfig)

	out, _, err := execute(t, "explain", "--config", cfg, "--format", "json",
		"tests/unit/test_api.py", "S101")
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "tests/**/*.py", decoded["pattern"])
}

func TestRulesCmd(t *testing.T) {
	out, _, err := execute(t, "rules", "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "E")
	assert.Contains(t, out, "pycodestyle")
}

func TestRulesCmd_SingleGroup(t *testing.T) {
	out, _, err := execute(t, "rules", "--format", "json", "F")
	require.NoError(t, err)

	var group struct {
		Code  string   `json:"code"`
		Rules []string `json:"rules"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &group))
	assert.Equal(t, "F", group.Code)
	assert.Contains(t, group.Rules, "F401")
}

func TestRulesCmd_UnknownGroup(t *testing.T) {
	_, _, err := execute(t, "rules", "ZZZ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ZZZ")
}

func TestGenConfigCmd(t *testing.T) {
	out, _, err := execute(t, "gen-config")
	require.NoError(t, err)
	assert.Contains(t, out, "[lint]")
	assert.Contains(t, out, "line-length")
}

func TestGenConfigCmd_Write(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	_, _, err = execute(t, "gen-config", "-w")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "rulescope.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[lint]")

	// A second write must refuse to clobber the existing file.
	_, _, err = execute(t, "gen-config", "-w")
	assert.Error(t, err)
}

func TestDocsCmd(t *testing.T) {
	out, _, err := execute(t, "docs")
	require.NoError(t, err)
	assert.Contains(t, out, "configuration")
	assert.Contains(t, out, "patterns")
	assert.Contains(t, out, "resolution")
}

func TestDocsCmd_UnknownTopic(t *testing.T) {
	_, _, err := execute(t, "docs", "nope")
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rulescope version")
}

func TestRootCmd_NoSubcommand(t *testing.T) {
	_, _, err := execute(t)
	assert.Error(t, err)
}
