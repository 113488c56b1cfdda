package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "atlas",
	Short: "Atlas - global occupational safety and health intelligence backend",
	Long: `Atlas Unified CLI

Backend for the interactive OSH world map: country scores, economic
snapshots, benchmark positioning, and AI-generated narrative insights.

Usage:
  go run ./cmd/atlas [command]

Examples:
  go run ./cmd/atlas api
  go run ./cmd/atlas seed countries
  go run ./cmd/atlas insights init KOR
  go run ./cmd/atlas scheduler start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}
