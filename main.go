package main

import (
	"fmt"
	"os"

	"github.com/temirov/hubpull/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main prints the hub synchronization plan for the manifest named on the command line.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
