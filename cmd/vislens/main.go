// Command vislens compiles visualization intents against a table.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/vislens/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}

	// Commands print their own errors; anything else (flag parsing,
	// argument counts) is reported here.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
