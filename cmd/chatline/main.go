// Package main is the entry point for the chatline terminal widget.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/tOgg1/chatline/internal/widgettui"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := widgettui.Execute(fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, widgettui.ErrNoTTY) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
