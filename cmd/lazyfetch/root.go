package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lazyfetch",
	Short: "lazyfetch resolves HTTP responses lazily",
	Long: `lazyfetch answers questions about one HTTP response while doing as little
network work as possible: a cheap metadata probe first, the full fetch only
when the body is actually needed and no interrupt condition stopped it.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Per round trip timeout (overrides config)")
	rootCmd.PersistentFlags().String("probe-method", "", "Method used by the metadata probe (overrides config)")
	rootCmd.PersistentFlags().StringArray("interrupt", nil, "Interrupt condition as kind[=value], repeatable")
}
