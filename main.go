package main

import (
	"os"

	"github.com/thomd/sfcc-cli-tools/cmd"
	"github.com/thomd/sfcc-cli-tools/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
