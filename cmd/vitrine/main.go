// Package main is the entry point for the vitrine viewer.
package main

import (
	"os"

	"github.com/runger/vitrine/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
