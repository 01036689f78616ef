// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-digest/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the paper cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache validity, age, and sizes",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.NewStore(loadConfig().Cache.Dir)
		if err != nil {
			return err
		}

		info := store.Info()
		fmt.Printf("Valid: %v\n", info.Valid)
		if !info.Metadata.CreatedAt.IsZero() {
			fmt.Printf("Created: %s\n", info.Metadata.CreatedAt.Format("2006-01-02 15:04:05 MST"))
			fp := info.Metadata.Fingerprint
			if len(fp) > 12 {
				fp = fp[:12] + "..."
			}
			fmt.Printf("Fingerprint: %s\n", fp)
		}
		for _, kind := range cache.Kinds {
			size, ok := info.Sizes[kind]
			if !ok {
				continue
			}
			fmt.Printf("%s: %d papers, %.1f KB\n",
				kind, info.Metadata.PaperCounts[string(kind)], float64(size)/1024)
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached data",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.NewStore(loadConfig().Cache.Dir)
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Cache cleared")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
