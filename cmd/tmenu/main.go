// Package main is the entry point for the tmenu selector.
package main

import (
	"os"

	"github.com/runger/tmenu/internal/cmd"
)

func main() {
	os.Exit(cmd.Run(os.Args[1:]))
}
