package rules

import (
	"github.com/spf13/cobra"
)

// NewCommand creates the rules command
// The command logic lives in the parent commands package to avoid
// circular dependencies.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rules [group]",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
	}

	return cmd
}
