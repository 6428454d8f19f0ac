// Memoryd is an attribute-memory chat daemon.
//
// It tracks long-lived user attributes across conversations: each turn
// judges which stored attributes are relevant, generates a response
// with them in context, and extracts new attribute values from the
// user's input into a SQLite store.
//
// Usage:
//
//	# Start the daemon with defaults
//	memoryd serve
//
//	# Seed the built-in attribute masters
//	memoryd seed
//
//	# Configure via file or environment
//	memoryd serve --config ./memoryd.yaml
//	MEMORYD_SERVER_PORT=9100 memoryd serve
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// configPath is the optional YAML config file location.
var configPath string

// version information (set via ldflags during build)
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "memoryd",
	Short: "Attribute-memory chat daemon",
	Long: `memoryd serves a chat API that remembers user attributes across turns.
Attribute definitions and extracted values live in a local SQLite database;
responses are generated by a configurable LLM provider.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
}
