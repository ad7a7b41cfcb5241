package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	var root = &cobra.Command{Use: "toolhunter"}
	root.AddCommand(serveCMD(), migrateCMD())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
