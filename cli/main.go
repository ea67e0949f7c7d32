package main

import (
	"os"

	"github.com/xshadowlegendx/astro-db/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
