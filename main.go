package main

import (
	"os"

	"github.com/vchernin/hh-scorer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
