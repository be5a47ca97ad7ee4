// Command vcs-go is the CLI front end for the engine: init, add, rm,
// commit, branch, checkout, merge, status, and log.
package main

import (
	"fmt"
	"os"

	"github.com/nivl-fork/vcs-go/internal/env"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	root := newRootCmd(cwd, env.NewFromOs())
	if err := root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
