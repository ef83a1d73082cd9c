// ABOUTME: Entry point for the grid-restore CLI
// ABOUTME: Simulates power grid restoration after a hurricane

package main

import (
	"fmt"
	"os"

	"github.com/markalston/grid-restore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
