package main

import (
	"os"

	"github.com/namastexlabs/automagik-telemetry/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
