package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host   string
	dryRun bool
)

var rootCmd = &cobra.Command{
	Use:   "fortnite-cli",
	Short: "A CLI to interact with the fortnite-tracker server",
	Long: `A command-line interface for a running fortnite-tracker.

Check that the server is alive, list the tracked players with the last match
reported for each, trigger a poll cycle without waiting for the interval, post
a match result by hand, or dump the Prometheus metrics.

Pass --dry-run to have the server log notifications instead of sending them.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Ask the server to log notifications instead of sending them")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
