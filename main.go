package main

import (
	"os"

	"github.com/stanleypangg/dear-applicant/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
