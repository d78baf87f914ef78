package main

import (
	"os"

	"github.com/jasonewillis/usajobs-skill-bridge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
