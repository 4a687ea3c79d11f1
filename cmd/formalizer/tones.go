package main

import (
	"os"

	"github.com/aretw0/formalizer/internal/cli"
	"github.com/aretw0/formalizer/internal/presentation/tui"
	"github.com/aretw0/formalizer/pkg/domain"
	"github.com/spf13/cobra"
)

var tonesCmd = &cobra.Command{
	Use:   "tones",
	Short: "List the available tones",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")
		return cli.PrintTones(cmd.OutOrStdout(), domain.Tones(), raw || !tui.IsTerminal(os.Stdout), tui.Width(os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(tonesCmd)
	tonesCmd.Flags().Bool("raw", false, "Print plain text even on a terminal")
}
