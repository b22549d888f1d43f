package main

import (
	"os"

	"github.com/edusnap-dev/edusnap/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
