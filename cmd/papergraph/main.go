// Package main is the papergraph CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DashankaNadeeshanDeSilva/papergraph/cmd/papergraph/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "papergraph",
		Short: "Build and inspect a citation graph for a research topic",
		Long: `papergraph resolves a set of seed papers, expands them through
bounded citation-graph traversal, and runs similarity, co-citation,
PageRank and clustering analytics against the result.

Commands:
  build    run a full graph build
  inspect  print store statistics
  cache    manage the response cache`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewBuildCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewCacheCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
