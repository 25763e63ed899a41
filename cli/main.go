package main

import (
	"fmt"
	"os"

	"github.com/trebuchet-org/catapult/internal/cli"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/config"
)

// Set by the release build via -ldflags
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)

	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, render.FormatError(err))
		os.Exit(1)
	}
}
