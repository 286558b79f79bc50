package main

import (
	"os"

	"github.com/openalpha/clobmatch/cmd/clobmatch/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
