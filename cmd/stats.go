package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stored codes, row counts and watermarks",
	Run: func(cmd *cobra.Command, args []string) {
		dep, err := NewAppDependency()
		if err != nil {
			log.Fatalf("Failed to create app dependency: %v", err)
		}
		defer dep.Close()

		ctx := cmd.Context()

		fmt.Printf("backend: %s\n", dep.manager.Name(ctx))
		codes := dep.manager.Codes(ctx)
		for _, code := range codes {
			fmt.Printf("%s  rows=%d  latest=%s\n",
				code,
				dep.manager.Count(ctx, code),
				dep.manager.LatestDate(ctx, code))
		}
		fmt.Printf("codes: %d, total rows: %d\n", len(codes), dep.manager.Count(ctx, ""))
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
