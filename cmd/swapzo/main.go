// Swapzo is a peer-to-peer barter marketplace.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "swapzo",
	Short: "Swapzo, a peer-to-peer barter marketplace with deterministic matching",
	Long: `Swapzo is a peer-to-peer barter marketplace. Users post what they offer
and what they need; the matching engine finds direct two-party swaps and
multi-party chain cycles, ranked by text similarity and blended with the
counterparty's reputation.`,
	RunE:          runServer, // Default to server mode.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serverCmd, mcpCmd, matchCmd, versionCmd)
	_ = godotenv.Load()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}
