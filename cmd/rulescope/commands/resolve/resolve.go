package resolve

import (
	"github.com/spf13/cobra"
)

// NewCommand creates the resolve command
// The command logic lives in the parent commands package to avoid
// circular dependencies.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resolve <file>...",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
	}

	return cmd
}
