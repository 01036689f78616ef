// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the digest configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter arxiv-digest.yaml in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		const path = "arxiv-digest.yaml"
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists; remove it first", path)
		}

		cfg := loadConfig()
		// Seed the lists so the generated file shows where they go.
		cfg.Scoring.Authors = []string{"Jane Doe"}
		cfg.Scoring.Categories = []string{"astro-ph.GA"}
		cfg.Scoring.Keywords = []string{"galaxy formation"}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s; edit the authors, categories, and keywords to taste\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(loadConfig())
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
