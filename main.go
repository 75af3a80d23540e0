package main

import (
	"os"

	"github.com/radnus321/learning-by-teaching/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
