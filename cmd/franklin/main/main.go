package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/franklin/cmd/franklin"
	"github.com/arthur-debert/franklin/pkg/cleanup"
)

func main() {
	rootCmd := franklin.NewRootCmd()
	err := rootCmd.Execute()
	cleanup.Run()

	if err != nil {
		if !franklin.Silenced(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(franklin.ExitCode(err))
	}
}
