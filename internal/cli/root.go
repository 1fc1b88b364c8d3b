// Package cli wires the auctiond commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "auctiond",
	Short: "auctiond - compressed-asset marketplace settlement daemon",
	Long: `auctiond hosts the escrow-and-matching settlement engine for a
compressed-asset marketplace: sellers post asks, buyers post bids, and
settlement atomically verifies Merkle-proof ownership, transfers the asset,
and splits payment among seller, marketplace, and creators.`,
	Version: "0.1.0-dev",
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path")
}
