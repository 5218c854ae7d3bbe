package main

import (
	"os"

	"github.com/haulops/haulctl/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
