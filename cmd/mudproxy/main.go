// Package main provides the mudproxy binary: the proxy server plus
// maintenance commands for its settings database and session logs.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "mudproxy",
		Short:        "MUD client proxy that tracks character state from the game stream",
		SilenceUsage: true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().String("config", "configs/mudproxy.yaml", "path to configuration file")
	root.AddCommand(serveCmd())
	root.AddCommand(replayCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(versionCmd())
	return root
}
