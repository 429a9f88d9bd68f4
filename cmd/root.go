package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stock-storage",
	Short: "Daily stock bar storage with local SQLite and S3-compatible snapshot sync",
}

func Execute() error {
	// .env is optional; CI runs inject credentials through the environment.
	_ = godotenv.Load()
	return rootCmd.Execute()
}
