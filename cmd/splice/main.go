package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "splice",
	Short: "Non-linear timeline editing service",
	Long: `splice keeps a media library and editable sequences in a local SQLite
database and serves them over an HTTP API on the loopback interface.

Settings come from SPLICE_* environment variables and an optional
editor.yaml in the data directory.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(exportEDLCmd)
	rootCmd.AddCommand(importCmd)
}
