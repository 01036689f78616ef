// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-digest/internal/cache"
	"github.com/pdiddy/arxiv-digest/internal/digest"
	"github.com/pdiddy/arxiv-digest/internal/fetch"
	"github.com/pdiddy/arxiv-digest/internal/history"
	"github.com/pdiddy/arxiv-digest/internal/render"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Fetch, rank, and render a digest",
	Long: `Generate fetches recent papers matching the configured authors,
categories, and keywords, scores them for relevance, and writes the top
results as a digest document.

Fetched data is cached for 24 hours keyed by the query configuration, so
repeated runs with unchanged settings skip the arXiv API. Display settings
(max papers, threshold, output format) never invalidate the cache.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntP("days", "d", 0, "look-back window in days (overrides config)")
	generateCmd.Flags().Int("max-papers", 0, "maximum papers in the digest (overrides config)")
	generateCmd.Flags().Bool("no-similarity", false, "disable the semantic similarity signal")
	generateCmd.Flags().Bool("force-refresh", false, "ignore cache validity and fetch fresh data")
	generateCmd.Flags().Bool("render-only", false, "re-render the last ranked results without fetching or scoring")
	generateCmd.Flags().String("format", "", "output format: markdown, latex, or html (overrides config)")
	generateCmd.Flags().StringP("output", "o", "", "output file path (overrides config)")
	generateCmd.Flags().BoolP("verbose", "v", false, "print the top papers after ranking")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	applyGenerateFlags(cmd, &cfg)

	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.close()

	g := &digest.Generator{
		Config:  cfg,
		Cache:   stores.cache,
		Fetcher: fetch.NewClient(cfg.Fetch),
		History: stores.history,
		Out:     os.Stderr,
	}

	forceRefresh, _ := cmd.Flags().GetBool("force-refresh")
	renderOnly, _ := cmd.Flags().GetBool("render-only")

	result, err := g.Run(context.Background(), digest.Options{
		ForceRefresh: forceRefresh,
		RenderOnly:   renderOnly,
	})
	if err != nil {
		return err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		printTopPapers(result.Papers)
	}

	outPath, err := writeDigest(cmd, cfg, result)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Digest written to %s\n", outPath)

	printStatistics(result)
	return nil
}

func applyGenerateFlags(cmd *cobra.Command, cfg *types.DigestConfig) {
	if days, _ := cmd.Flags().GetInt("days"); days > 0 {
		cfg.Scoring.DaysBack = days
	}
	if maxPapers, _ := cmd.Flags().GetInt("max-papers"); maxPapers > 0 {
		cfg.Scoring.MaxPapers = maxPapers
	}
	if noSim, _ := cmd.Flags().GetBool("no-similarity"); noSim {
		cfg.Scoring.UseSimilarity = false
	}
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		cfg.Output.Format = types.OutputFormat(format)
	}
}

type stores struct {
	cache   *cache.Store
	history *history.Store
}

func (s *stores) close() {
	if s.history != nil {
		s.history.Close()
	}
}

func openStores(cfg types.DigestConfig) (*stores, error) {
	cacheStore, err := cache.NewStore(cfg.Cache.Dir)
	if err != nil {
		return nil, err
	}

	var historyStore *history.Store
	if cfg.History.Path != "" {
		historyStore, err = history.Open(cfg.History.Path)
		if err != nil {
			// History is a convenience; a broken database must not block
			// digest generation.
			fmt.Fprintf(os.Stderr, "warning: opening history store: %v\n", err)
		}
	}
	return &stores{cache: cacheStore, history: historyStore}, nil
}

func writeDigest(cmd *cobra.Command, cfg types.DigestConfig, result *digest.Result) (string, error) {
	renderer, err := render.ForFormat(cfg.Output.Format)
	if err != nil {
		return "", err
	}

	now := time.Now()
	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" {
		outPath = outputPathFor(cfg.Output, now)
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	d := render.NewDigest(result.Papers, result.Stats, cfg.Output, now)
	if err := renderer.Render(f, d); err != nil {
		return "", fmt.Errorf("rendering digest: %w", err)
	}
	return outPath, nil
}

// outputPathFor swaps the configured filename extension to match the format.
func outputPathFor(out types.OutputConfig, now time.Time) string {
	path := out.Path(now)
	ext := map[types.OutputFormat]string{
		types.OutputMarkdown: ".md",
		types.OutputLaTeX:    ".tex",
		types.OutputHTML:     ".html",
	}[out.Format]
	if ext != "" && filepath.Ext(path) != ext {
		path = strings.TrimSuffix(path, filepath.Ext(path)) + ext
	}
	return path
}

func printTopPapers(papers []types.Paper) {
	n := len(papers)
	if n > 5 {
		n = 5
	}
	fmt.Fprintf(os.Stderr, "Top %d papers:\n", n)
	for i, p := range papers[:n] {
		fmt.Fprintf(os.Stderr, "%d. %s\n   Score: %.2f | %s\n", i+1, p.Title, p.Score, p.MatchReason)
	}
}

func printStatistics(result *digest.Result) {
	stats := result.Stats
	fmt.Fprintf(os.Stderr, "Total papers included: %d\n", stats.Total)
	fmt.Fprintf(os.Stderr, "Average relevance score: %.2f\n", stats.AverageScore)
	if result.PreviouslyFeatured > 0 {
		fmt.Fprintf(os.Stderr, "Previously featured: %d\n", result.PreviouslyFeatured)
	}

	if len(stats.Categories) > 0 {
		fmt.Fprintln(os.Stderr, "Papers by category:")
		for _, cat := range sortedByCount(stats.Categories) {
			fmt.Fprintf(os.Stderr, "  %s: %d\n", cat, stats.Categories[cat])
		}
	}
	if len(stats.Authors) > 0 {
		fmt.Fprintln(os.Stderr, "Papers by followed authors:")
		for _, author := range sortedByCount(stats.Authors) {
			fmt.Fprintf(os.Stderr, "  %s: %d\n", author, stats.Authors[author])
		}
	}
}

func sortedByCount(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
