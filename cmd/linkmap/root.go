package main

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for linkmap.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkmap",
		Short: "Discover all unique in-domain links reachable from a seed URL",
		Long: `linkmap crawls a site concurrently starting from a seed URL,
collects every unique in-domain link it can reach, and prints the
deduplicated inventory sorted lexicographically.`,
		Version: getVersion(),
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose diagnostic logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command. Cobra prints the error and usage to
// stderr itself; a failed run exits with code 1.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
