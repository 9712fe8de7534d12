// Command scenekit creates, validates, edits and stores scene documents.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/scenekit/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
