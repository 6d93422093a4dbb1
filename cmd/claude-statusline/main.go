package main

import (
	"os"

	"github.com/himattm/claude-statusline/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
