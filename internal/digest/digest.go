// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package digest drives the fetch, cache, and ranking stages into a single
// pipeline run and implements the operational modes: normal (use cache when
// valid), force-refresh, and render-only.
package digest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/arxiv-digest/internal/cache"
	"github.com/pdiddy/arxiv-digest/internal/history"
	"github.com/pdiddy/arxiv-digest/internal/rank"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// Fetcher is the data-source boundary. fetch.Client implements it; tests
// substitute stubs.
type Fetcher interface {
	FetchAll(ctx context.Context, cfg types.ScoringConfig, w io.Writer) ([]types.Paper, error)
	FetchReference(ctx context.Context, cfg types.ScoringConfig, w io.Writer) ([]types.Paper, error)
}

// Generator runs the digest pipeline. History is optional; when nil, runs
// are not recorded.
type Generator struct {
	Config  types.DigestConfig
	Cache   *cache.Store
	Fetcher Fetcher
	History *history.Store
	Out     io.Writer
}

// Options selects the operational mode for one run.
type Options struct {
	// ForceRefresh ignores cache validity and always fetches.
	ForceRefresh bool

	// RenderOnly loads the filtered cache kind and skips fetch and scoring
	// entirely. It fails when that cache kind is absent; it never falls
	// back to fetching.
	RenderOnly bool
}

// Result is the outcome of a pipeline run, consumed read-only by rendering.
type Result struct {
	Papers    []types.Paper
	Stats     rank.Statistics
	FromCache bool

	// PreviouslyFeatured counts selected papers that appeared in an
	// earlier recorded run.
	PreviouslyFeatured int
}

// Run executes one pipeline invocation.
func (g *Generator) Run(ctx context.Context, opts Options) (*Result, error) {
	scoring := g.Config.Scoring
	if err := scoring.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if opts.RenderOnly {
		return g.renderOnly(scoring)
	}

	useCache := !opts.ForceRefresh && g.Cache.IsValid(scoring)

	papers, fromCache, err := g.loadOrFetchPapers(ctx, scoring, useCache)
	if err != nil {
		return nil, err
	}

	var reference []types.Paper
	if scoring.UseSimilarity && len(scoring.Authors) > 0 {
		reference, err = g.loadOrFetchReference(ctx, scoring, useCache)
		if err != nil {
			return nil, err
		}
	}

	ranked := rank.FilterAndRank(papers, reference, scoring, g.Out)

	if err := g.Cache.Save(cache.KindFiltered, ranked, scoring); err != nil {
		// Cache failures never abort a run that already has results.
		fmt.Fprintf(g.Out, "warning: caching filtered papers: %v\n", err)
	}

	result := &Result{
		Papers:    ranked,
		Stats:     rank.GetStatistics(ranked, scoring),
		FromCache: fromCache,
	}
	g.record(ctx, result, len(papers))
	return result, nil
}

// renderOnly serves the fast-path re-render flow from the filtered cache.
func (g *Generator) renderOnly(scoring types.ScoringConfig) (*Result, error) {
	papers, ok := g.Cache.Load(cache.KindFiltered, scoring)
	if !ok {
		return nil, fmt.Errorf("render-only: no filtered papers in cache; run a full generate first")
	}
	fmt.Fprintf(g.Out, "Loaded %d filtered papers from cache\n", len(papers))
	return &Result{
		Papers:    papers,
		Stats:     rank.GetStatistics(papers, scoring),
		FromCache: true,
	}, nil
}

func (g *Generator) loadOrFetchPapers(ctx context.Context, scoring types.ScoringConfig, useCache bool) ([]types.Paper, bool, error) {
	if useCache {
		if papers, ok := g.Cache.Load(cache.KindPapers, scoring); ok {
			fmt.Fprintf(g.Out, "Loaded %d papers from cache\n", len(papers))
			return papers, true, nil
		}
	}

	papers, err := g.Fetcher.FetchAll(ctx, scoring, g.Out)
	if err != nil {
		return nil, false, fmt.Errorf("fetching papers: %w", err)
	}
	if err := g.Cache.Save(cache.KindPapers, papers, scoring); err != nil {
		fmt.Fprintf(g.Out, "warning: caching papers: %v\n", err)
	}
	return papers, false, nil
}

func (g *Generator) loadOrFetchReference(ctx context.Context, scoring types.ScoringConfig, useCache bool) ([]types.Paper, error) {
	if useCache {
		if papers, ok := g.Cache.Load(cache.KindReference, scoring); ok {
			fmt.Fprintf(g.Out, "Loaded %d reference papers from cache\n", len(papers))
			return papers, nil
		}
	}

	papers, err := g.Fetcher.FetchReference(ctx, scoring, g.Out)
	if err != nil {
		return nil, fmt.Errorf("fetching reference papers: %w", err)
	}
	if err := g.Cache.Save(cache.KindReference, papers, scoring); err != nil {
		fmt.Fprintf(g.Out, "warning: caching reference papers: %v\n", err)
	}
	return papers, nil
}

// record stores the run in the history database and annotates the result
// with the count of previously featured papers. Best effort: history
// failures are warned, never fatal.
func (g *Generator) record(ctx context.Context, result *Result, fetched int) {
	if g.History == nil {
		return
	}

	runID, err := g.History.Record(ctx, history.Run{
		CreatedAt:   time.Now(),
		Fingerprint: cache.Fingerprint(g.Config.Scoring),
		Fetched:     fetched,
		Selected:    len(result.Papers),
		AvgScore:    result.Stats.AverageScore,
	}, result.Papers)
	if err != nil {
		fmt.Fprintf(g.Out, "warning: recording run history: %v\n", err)
		return
	}

	ids := make([]string, len(result.Papers))
	for i, p := range result.Papers {
		ids[i] = p.ID
	}
	seen, err := g.History.SeenBefore(ctx, ids, runID)
	if err != nil {
		fmt.Fprintf(g.Out, "warning: checking featured papers: %v\n", err)
		return
	}
	result.PreviouslyFeatured = len(seen)
}
