package main

import (
	"os"

	"github.com/spigell/rxresume-mcp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
