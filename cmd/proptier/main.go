package main

import (
	"os"

	"github.com/wonny/proptier/cmd/proptier/commands"
)

// main is the entry point for the proptier CLI
// ⭐ Single CLI entry point: go run ./cmd/proptier [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
