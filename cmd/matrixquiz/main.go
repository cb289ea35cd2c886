// Package main provides the matrixquiz command: a game in which the player
// recovers a random 2×2 matrix from the picture of the transformed unit
// square.
package main

import (
	"fmt"
	"io"
	"os"
)

// Version is the current version of matrixquiz.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
