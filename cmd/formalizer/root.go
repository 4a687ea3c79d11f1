package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/formalizer/internal/cli"
	"github.com/aretw0/formalizer/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "formalizer",
	Short: "Formalizer turns casual messages into professional emails",
	Long: `Formalizer rewrites short, casual messages into professional emails in one of
six tones. It uses a hosted chat-completion model when GROQ_API_KEY is set and a
basic template otherwise.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultConfigFile, "Path to the YAML configuration file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
}

// loadApp reads configuration and wires the application for a command.
func loadApp(cmd *cobra.Command, opts cli.AppOptions) (*cli.App, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}
	opts.Debug = debug
	return cli.NewApp(cmdContext(cmd), *cfg, opts)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
