package main

import (
	"os"

	"github.com/gear6io/tableserve/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
