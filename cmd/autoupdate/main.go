// Package main provides the autoupdate CLI.
package main

import (
	"os"

	"github.com/ProsePal/ebooklib-autoupdate/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
