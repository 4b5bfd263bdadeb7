// Package main is the entry point for the stylist application.
package main

import (
	"os"

	"github.com/jmylchreest/stylist/cmd/stylist/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
