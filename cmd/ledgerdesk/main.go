package main

import (
	"os"

	"github.com/ledgerdesk/ledgerdesk/cmd/ledgerdesk/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
