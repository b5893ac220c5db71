package main

import (
	"os"

	"github.com/canscope/canscope/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
