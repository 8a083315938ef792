package main

import (
	"os"

	"github.com/quakecase/engine/cmd/quakecase/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
