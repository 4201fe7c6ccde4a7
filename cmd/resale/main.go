package main

import (
	"os"

	"github.com/resale-dev/resale/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
