package explain

import (
	"github.com/spf13/cobra"
)

// NewCommand creates the explain command
// The command logic lives in the parent commands package to avoid
// circular dependencies.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "explain <file> <rule>",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(2),
	}

	return cmd
}
