package main

import (
	"os"

	// Register built-in handlers via init()
	_ "chorus/cmd/chorus/handlers"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
