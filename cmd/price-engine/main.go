// Package main is the entry point for the price-engine server.
package main

import (
	"os"

	"github.com/bluberry-labs/price-engine/cmd/price-engine/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
