package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/formalizer"
	"github.com/aretw0/formalizer/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of formalizer",
	Run: func(cmd *cobra.Command, args []string) {
		version := strings.TrimSpace(formalizer.Version)
		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(cmd.OutOrStdout(), version)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "formalizer version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
