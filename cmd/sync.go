package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var syncPull bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push pending writes to the remote snapshot, or pull a fresh one",
	Run: func(cmd *cobra.Command, args []string) {
		dep, err := NewAppDependency()
		if err != nil {
			log.Fatalf("Failed to create app dependency: %v", err)
		}
		defer dep.Close()

		ctx := cmd.Context()

		if syncPull {
			if err := dep.manager.Pull(ctx); err != nil {
				log.Fatalf("Pull failed: %v", err)
			}
			fmt.Printf("pulled latest snapshot (backend %s)\n", dep.manager.Name(ctx))
			return
		}

		if err := dep.manager.Sync(ctx); err != nil {
			log.Fatalf("Sync failed: %v", err)
		}
		fmt.Printf("sync complete (backend %s)\n", dep.manager.Name(ctx))
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncPull, "pull", false, "discard the working copy and re-download the remote snapshot")
	rootCmd.AddCommand(syncCmd)
}
