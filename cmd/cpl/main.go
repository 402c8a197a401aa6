package main

import (
	"os"

	"github.com/hassan/cpl/cmd/cpl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
