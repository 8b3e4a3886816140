package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "storyctl",
		Short:        "Author tooling for StoryPlaces stories",
		SilenceUsage: true,
	}
	root.AddCommand(validateCmd())
	root.AddCommand(evalCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
