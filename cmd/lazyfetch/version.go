package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/lazyfetch"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of lazyfetch",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "lazyfetch version %s\n", strings.TrimSpace(lazyfetch.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
