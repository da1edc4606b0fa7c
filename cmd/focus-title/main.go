package main

import (
	"os"

	"github.com/DavDaz/focus-title/internal/cli"
	"github.com/DavDaz/focus-title/internal/version"
)

func main() {
	if err := cli.Execute(version.Version); err != nil {
		os.Exit(1)
	}
}
