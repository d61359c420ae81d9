package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rulescope/rulescope/pkg/catalog"
	"github.com/rulescope/rulescope/pkg/config"
	"github.com/rulescope/rulescope/pkg/errors"
	"github.com/rulescope/rulescope/pkg/logging"
	"github.com/rulescope/rulescope/pkg/output"
	"github.com/rulescope/rulescope/pkg/policy"
)

// loadPolicy builds the effective policy from the configured settings
func loadPolicy(cmd *cobra.Command) (*policy.Policy, *config.Settings, error) {
	configPath, _ := cmd.Root().PersistentFlags().GetString("config")

	settings, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	pol, err := settings.Policy(catalog.Default())
	if err != nil {
		return nil, nil, err
	}

	return pol, settings, nil
}

// outputFormat resolves the --format flag, falling back to terminal
// detection on stdout when set to auto.
func outputFormat(cmd *cobra.Command) (output.Format, error) {
	raw, _ := cmd.Root().PersistentFlags().GetString("format")

	format, err := output.ParseFormat(raw)
	if err != nil {
		return output.FormatText, errors.Wrapf(err, errors.ErrInvalidInput, "invalid --format value %q", raw)
	}

	return output.DetectFormat(format, os.Stdout), nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	logger := logging.GetLogger("resolve")

	pol, settings, err := loadPolicy(cmd)
	if err != nil {
		return err
	}
	logger.Debug().Str("config", settings.Source).Int("files", len(args)).Msg("Resolving rule sets")

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	results := make([]output.FileRules, 0, len(args))
	for _, path := range args {
		results = append(results, output.FileRules{
			Path:  path,
			Rules: pol.Resolve(path),
		})
	}

	return output.NewRenderer(format, cmd.OutOrStdout()).RuleSets(results)
}

func runExplain(cmd *cobra.Command, args []string) error {
	pol, _, err := loadPolicy(cmd)
	if err != nil {
		return err
	}

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	path, rule := args[0], args[1]
	return output.NewRenderer(format, cmd.OutOrStdout()).Decision(path, pol.Explain(path, rule))
}

func runRules(cmd *cobra.Command, args []string) error {
	cat := catalog.Default()

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return renderGroups(cmd, cat, format)
	}
	return renderGroup(cmd, cat, args[0], format)
}

func renderGroups(cmd *cobra.Command, cat *catalog.Catalog, format output.Format) error {
	groups := cat.Groups()

	switch format {
	case output.FormatJSON:
		return writeJSON(cmd, groups)
	case output.FormatYAML:
		return writeYAML(cmd, groups)
	}

	data := pterm.TableData{{"CODE", "LABEL", "RULES"}}
	for _, g := range groups {
		data = append(data, []string{g.Code, g.Label, strconv.Itoa(len(g.Rules))})
	}

	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to render rule group table")
	}
	fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return nil
}

func renderGroup(cmd *cobra.Command, cat *catalog.Catalog, code string, format output.Format) error {
	group, ok := cat.Group(code)
	if !ok {
		return errors.Newf(errors.ErrNotFound, "unknown rule group %q", code)
	}

	switch format {
	case output.FormatJSON:
		return writeJSON(cmd, group)
	case output.FormatYAML:
		return writeYAML(cmd, group)
	}

	data := pterm.TableData{{"RULE", "GROUP"}}
	for _, rule := range group.Rules {
		data = append(data, []string{rule, group.Code})
	}

	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to render rule table")
	}
	fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return nil
}

func runGenConfig(cmd *cobra.Command, args []string) error {
	write, _ := cmd.Flags().GetBool("write")

	if !write {
		fmt.Fprint(cmd.OutOrStdout(), config.DefaultTOML())
		return nil
	}

	target := "rulescope.toml"
	if _, err := os.Stat(target); err == nil {
		return errors.Newf(errors.ErrInvalidInput, "refusing to overwrite existing %s", target)
	}

	if err := os.WriteFile(target, []byte(config.DefaultTOML()), 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to write %s", target)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
	return nil
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(cmd *cobra.Command, v interface{}) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	defer func() { _ = enc.Close() }()
	return enc.Encode(v)
}
