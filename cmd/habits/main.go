package main

import (
	"os"

	"github.com/comitanigiacomo/kanso-habits/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
