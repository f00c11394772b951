// Command strided inspects tensor memory layouts and verifies that
// operators preserve the channels-last format.
package main

import (
	"fmt"
	"os"

	"github.com/strided-ml/strided/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
