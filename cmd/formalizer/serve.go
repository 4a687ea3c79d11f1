package main

import (
	"fmt"
	"net"

	"github.com/aretw0/formalizer/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server and web UI",
	Long:  `Starts the formalizer web UI and JSON API. History is kept in memory unless Redis is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd, cli.AppOptions{})
		if err != nil {
			return err
		}
		defer app.Close()

		port := app.Config.Server.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetString("port")
		}

		ln, err := net.Listen("tcp", ":"+port)
		if err != nil {
			return fmt.Errorf("failed to listen on port %s: %w", port, err)
		}

		ctx := cli.NewSignalContext(cmdContext(cmd))
		defer ctx.Cancel()

		if err := cli.Serve(ctx, app, ln); err != nil {
			return err
		}
		if sig := ctx.Signal(); sig != nil {
			app.Logger.Debug("Stopped by signal", "signal", sig.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on (overrides config)")
}
