package main

import (
	"os"

	"github.com/aretw0/formalizer/internal/cli"
	"github.com/aretw0/formalizer/internal/presentation/tui"
	"github.com/aretw0/formalizer/pkg/domain"
	"github.com/spf13/cobra"
)

var formalizeCmd = &cobra.Command{
	Use:   "formalize [message...]",
	Short: "Rewrite a casual message as a professional email",
	Long: `Rewrites the message given as arguments, or read from stdin, into a
professional email. Output is rendered on a terminal and plain otherwise.
Exits with status 2 when the message is not between 3 and 500 words.`,
	Example: `  formalizer formalize --tone Friendly "hey can u send me the report by friday"
  echo "need the budget numbers asap" | formalizer formalize --raw`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd, cli.AppOptions{})
		if err != nil {
			return err
		}
		defer app.Close()

		text, err := cli.ReadMessage(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		tone, _ := cmd.Flags().GetString("tone")
		raw, _ := cmd.Flags().GetBool("raw")
		sessionID, _ := cmd.Flags().GetString("session")

		opts := cli.FormalizeOptions{
			Tone:      tone,
			SessionID: sessionID,
			Raw:       raw || !tui.IsTerminal(os.Stdout),
			Width:     tui.Width(os.Stdout),
		}
		return cli.Formalize(cmdContext(cmd), app, text, opts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(formalizeCmd)
	formalizeCmd.Flags().StringP("tone", "t", domain.DefaultTone, "Tone of the email (see 'formalizer tones')")
	formalizeCmd.Flags().Bool("raw", false, "Print plain text even on a terminal")
	formalizeCmd.Flags().StringP("session", "s", "", "Record the result in this session's history")
}
