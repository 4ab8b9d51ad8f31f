package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "glint",
	Short: "A quick launcher's search and plugin engine",
	Long: `Glint aggregates applications, files, browser data, clipboard history,
and sandboxed plugins into one ranked result list per query.

Queries classify before they fan out: trigger prefixes route to a single
provider, and calculations, colors, web-search shortcuts, and URLs resolve
instantly without touching any provider.`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.glint/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

// printError prints an error message to stderr.
func printError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
}
