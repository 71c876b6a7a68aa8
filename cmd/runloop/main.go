// Command runloop selects gesture performers and forwards launch
// configurations.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/runloop/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}

	// ExitErrors were already reported on stdout by the command.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
