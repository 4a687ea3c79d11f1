package main

import (
	"github.com/aretw0/formalizer/internal/cli"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect session history stored in Redis",
	Long: `Lists, prints or clears the recent conversions of a session.
History shared with the server requires Redis (FORMALIZER_REDIS_ADDR).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd, cli.AppOptions{RequireRedis: true})
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cmdContext(cmd)
		if list, _ := cmd.Flags().GetBool("list-sessions"); list {
			return cli.Sessions(ctx, app, cmd.OutOrStdout())
		}

		var opts cli.HistoryOptions
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.EntryID, _ = cmd.Flags().GetString("entry")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Clear, _ = cmd.Flags().GetBool("clear")
		return cli.History(ctx, app, opts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringP("session", "s", "", "Session ID")
	historyCmd.Flags().String("entry", "", "Print only the email of this entry")
	historyCmd.Flags().Bool("json", false, "Output JSON")
	historyCmd.Flags().Bool("clear", false, "Delete the session history")
	historyCmd.Flags().Bool("list-sessions", false, "List known sessions")
	historyCmd.MarkFlagsMutuallyExclusive("entry", "clear")
}
