// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-digest/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past digest runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if cfg.History.Path == "" {
			return fmt.Errorf("history recording is disabled (history.path is empty)")
		}

		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := store.Runs(context.Background(), limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No recorded runs.")
			return nil
		}

		fmt.Printf("%-4s  %-20s  %-8s  %-8s  %s\n", "Run", "Date", "Fetched", "Selected", "Avg score")
		for _, r := range runs {
			fmt.Printf("%-4d  %-20s  %-8d  %-8d  %.2f\n",
				r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Fetched, r.Selected, r.AvgScore)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	rootCmd.AddCommand(historyCmd)
}
