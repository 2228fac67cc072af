// Package main is the entry point for the pricectl client.
package main

import "github.com/bluberry-labs/price-engine/cmd/pricectl/cmd"

func main() {
	cmd.Execute()
}
