// Package cmd holds the foodorder command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "foodorder",
		Short: "Multi-tenant food ordering API",
		Long: `foodorder serves the food ordering API: authentication, company and
restaurant browsing, carts and orders, plus live order events over websocket.

Settings come from the YAML file given by --config (or CONFIG_PATH), an
optional .env file and the environment. Running without a sub-command starts
the server.`,
		SilenceUsage: true,
		RunE:         runServe,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "path to the YAML config file")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newTokenCmd())
	return rootCmd
}

// Execute runs the command line.
func Execute() error {
	if err := newRootCmd().Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}
	return nil
}
