package docs

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/rulescope/rulescope/pkg/errors"
)

//go:embed topics/*.md
var topicsFS embed.FS

// NewCommand creates the docs command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "docs [topic]",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "misc",
		Args:    cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return topicNames(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return listTopics(cmd)
			}
			return showTopic(cmd, args[0])
		},
	}

	return cmd
}

func topicNames() []string {
	entries, err := topicsFS.ReadDir("topics")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".md"))
	}
	sort.Strings(names)
	return names
}

func listTopics(cmd *cobra.Command) error {
	fmt.Fprintln(cmd.OutOrStdout(), "Available topics:")
	for _, name := range topicNames() {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "\nUse 'rulescope docs <topic>' to read one.")
	return nil
}

func showTopic(cmd *cobra.Command, name string) error {
	content, err := topicsFS.ReadFile("topics/" + name + ".md")
	if err != nil {
		return errors.Newf(errors.ErrNotFound, "unknown topic %q, run 'rulescope docs' to list topics", name)
	}

	fmt.Fprint(cmd.OutOrStdout(), renderMarkdown(string(content)))
	return nil
}

// renderMarkdown converts markdown to terminal output, falling back to
// the raw text when the renderer cannot be built.
func renderMarkdown(content string) string {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}

	return rendered
}
