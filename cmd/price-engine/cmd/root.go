// Package cmd implements the CLI commands for the price-engine server.
package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	apiURL  string
)

var rootCmd = &cobra.Command{
	Use:   "price-engine",
	Short: "Multi-source price estimation service",
	Long: "An API-first service that estimates fair used-market resale prices for\n" +
		"consumer items, combining live eBay listings, an LLM pricing analyst,\n" +
		"and a curated local pricing catalog with graceful fallback between them.",
}

func init() {
	// API keys live in the environment; a local .env is a convenience, not
	// a requirement.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().
		StringVar(&apiURL, "api-url", "http://localhost:8080", "API server URL for client commands")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
