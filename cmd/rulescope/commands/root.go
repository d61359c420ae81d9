package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rulescope/rulescope/cmd/rulescope/commands/docs"
	"github.com/rulescope/rulescope/cmd/rulescope/commands/explain"
	"github.com/rulescope/rulescope/cmd/rulescope/commands/genconfig"
	"github.com/rulescope/rulescope/cmd/rulescope/commands/resolve"
	"github.com/rulescope/rulescope/cmd/rulescope/commands/rules"
	"github.com/rulescope/rulescope/internal/version"
	"github.com/rulescope/rulescope/pkg/logging"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "rulescope",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand given: show help but signal incorrect usage
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringP("config", "c", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringP("format", "f", "auto", MsgFlagFormat)

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "config",
		Title: "CONFIGURATION:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	// Command logic lives in runners.go; the subcommand packages only
	// declare the command surface.
	resolveCmd := resolve.NewCommand()
	resolveCmd.RunE = runResolve
	rootCmd.AddCommand(resolveCmd)

	explainCmd := explain.NewCommand()
	explainCmd.RunE = runExplain
	rootCmd.AddCommand(explainCmd)

	rulesCmd := rules.NewCommand()
	rulesCmd.RunE = runRules
	rootCmd.AddCommand(rulesCmd)

	genConfigCmd := genconfig.NewCommand()
	genConfigCmd.RunE = runGenConfig
	rootCmd.AddCommand(genConfigCmd)

	rootCmd.AddCommand(docs.NewCommand())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Print version information",
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("rulescope version %s\n", version.Version)
			cmd.Printf("  commit: %s\n", version.Commit)
			cmd.Printf("  built:  %s\n", version.Date)
		},
	}
}
