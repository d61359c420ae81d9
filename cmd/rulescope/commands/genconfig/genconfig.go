package genconfig

import (
	"github.com/spf13/cobra"
)

// NewCommand creates the gen-config command
// The command logic lives in the parent commands package to avoid
// circular dependencies.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "config",
		Args:    cobra.NoArgs,
	}

	cmd.Flags().BoolP("write", "w", false, "Write rulescope.toml instead of printing to stdout")

	return cmd
}
