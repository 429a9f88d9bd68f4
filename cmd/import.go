package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"stock-storage/internal/dto"
)

var (
	importCode      string
	importSource    string
	importSkipFresh bool
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import a provider CSV of daily bars for one code",
	Long: "Reads a CSV with a header row (date,open,high,low,close,volume," +
		"amount,pct_chg,ma5,ma10,ma20,volume_ratio) and upserts the bars for " +
		"the given code. Empty cells stay null.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dep, err := NewAppDependency()
		if err != nil {
			log.Fatalf("Failed to create app dependency: %v", err)
		}
		defer dep.Close()

		ctx := cmd.Context()

		if importSkipFresh && dep.manager.HasTodayData(ctx, importCode, "") {
			fmt.Printf("%s already has today's bar, nothing to import\n", importCode)
			return
		}

		table, err := readCSVTable(args[0])
		if err != nil {
			log.Fatalf("Failed to read %s: %v", args[0], err)
		}

		saved := dep.manager.SaveFromTable(ctx, table, importCode, importSource)
		fmt.Printf("imported %d rows for %s (watermark %s)\n",
			saved, importCode, dep.manager.LatestDate(ctx, importCode))
	},
}

func readCSVTable(path string) (*dto.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var table dto.Table
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		row := dto.Row{Cells: map[string]any{}}
		for i, col := range header {
			if i >= len(record) || record[i] == "" {
				continue
			}
			if col == "date" {
				row.Index = record[i]
				row.Cells[col] = record[i]
				continue
			}
			if v, err := strconv.ParseFloat(record[i], 64); err == nil {
				row.Cells[col] = v
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return &table, nil
}

func init() {
	importCmd.Flags().StringVar(&importCode, "code", "", "instrument code the bars belong to")
	importCmd.Flags().StringVar(&importSource, "source", "csv", "data source label")
	importCmd.Flags().BoolVar(&importSkipFresh, "skip-fresh", false, "skip the import when today's bar is already stored")
	_ = importCmd.MarkFlagRequired("code")
	rootCmd.AddCommand(importCmd)
}
