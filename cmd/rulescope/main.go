package main

import (
	"fmt"
	"os"

	"github.com/rulescope/rulescope/cmd/rulescope/commands"
	"github.com/rulescope/rulescope/pkg/output/styles"
)

func main() {
	rootCmd := commands.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Print the error in red
		errorStyle := styles.GetStyle("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
