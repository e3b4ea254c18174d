// Command ghostctl manages a Ghost site through the Admin API: connection
// checks, site statistics, batch post operations and webhooks.
package main

import (
	"fmt"
	"os"
)

func main() {
	root := newRootCmd(newApp(os.Stdin, os.Stdout))
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, renderError(err))
		os.Exit(1)
	}
}
