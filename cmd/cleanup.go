package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"stock-storage/pkg/utils"
)

var (
	cleanupBefore        string
	cleanupRetentionDays int
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete daily bars older than a cutoff date",
	Run: func(cmd *cobra.Command, args []string) {
		dep, err := NewAppDependency()
		if err != nil {
			log.Fatalf("Failed to create app dependency: %v", err)
		}
		defer dep.Close()

		cutoff := cleanupBefore
		if cutoff == "" {
			days := cleanupRetentionDays
			if days <= 0 {
				days = dep.cfg.Storage.RetentionDays
			}
			if days <= 0 {
				fmt.Println("no cutoff: pass --before or --retention-days, or set storage.retention_days")
				return
			}
			cutoff = utils.DaysAgo(days)
		}
		if !utils.ValidDate(cutoff) {
			log.Fatalf("Invalid cutoff date %q, want YYYY-MM-DD", cutoff)
		}

		deleted := dep.manager.DeleteBefore(cmd.Context(), cutoff)
		fmt.Printf("deleted %d rows before %s\n", deleted, cutoff)
	},
}

func init() {
	cleanupCmd.Flags().StringVar(&cleanupBefore, "before", "", "delete rows with date < this YYYY-MM-DD date")
	cleanupCmd.Flags().IntVar(&cleanupRetentionDays, "retention-days", 0, "derive the cutoff from a retention window")
	rootCmd.AddCommand(cleanupCmd)
}
