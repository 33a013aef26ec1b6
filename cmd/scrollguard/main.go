// Package main is the entry point for scrollguard.
package main

import (
	"os"

	"github.com/roach88/scrollguard/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
