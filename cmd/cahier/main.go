// Package main provides the cahier binary: the HTTP API server plus a few
// maintenance commands over the configured project store.
package main

import (
	"fmt"
	"os"
)

const (
	Version = "0.1.0"
	appName = "cahier"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
