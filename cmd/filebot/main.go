// Package main is the filebot CLI entry point.
package main

import (
	"os"

	"github.com/hyperjump/filebot/cmd/filebot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
