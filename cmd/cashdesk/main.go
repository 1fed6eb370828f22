// Package main is the entry point for the cashdesk CLI.
package main

import (
	"os"

	"github.com/warp/cashdesk/cmd/cashdesk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
