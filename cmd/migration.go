package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"stock-storage/config"
	"stock-storage/pkg/logger"
	"stock-storage/pkg/sqlite"
)

func runMigrations(direction string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	path := cfg.Storage.DBPath
	if path == "" {
		path = config.DefaultDBPath
	}

	// Open applies all pending migrations.
	db, err := sqlite.Open(path, cfg.Storage.DBLogLevel, lg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	if direction == "down" {
		if err := db.Revert(); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		fmt.Println("Reverted last migration successfully.")
	} else {
		fmt.Println("Applied migrations successfully.")
	}

	if err := db.Close(); err != nil {
		log.Printf("Migration database error on close: %v\n", err)
	}
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all available database migrations",
	Run: func(cmd *cobra.Command, args []string) {
		runMigrations("up")
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert the last database migration",
	Run: func(cmd *cobra.Command, args []string) {
		runMigrations("down")
	},
}

var migrateCmd = &cobra.Command{
	Use: "migrate",
}

func init() {
	migrateCmd.AddCommand(upCmd)
	migrateCmd.AddCommand(downCmd)
	rootCmd.AddCommand(migrateCmd)
}
