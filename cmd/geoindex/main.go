// Package main provides the entry point for the geoindex CLI.
package main

import (
	"os"

	"github.com/GrainArc/GeoIndex/cmd/geoindex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
