package main

import (
	"os"

	"github.com/oshpulse/atlas/cmd/atlas/commands"
)

// main is the entry point for the Atlas CLI
// ⭐ Single entry point: go run ./cmd/atlas [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
