// Package main is the entry point for the rollerstone CLI.
package main

import (
	"os"

	"rollerstone-site/cmd/rollerstone/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
