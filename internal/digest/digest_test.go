// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-digest/internal/cache"
	"github.com/pdiddy/arxiv-digest/internal/history"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// stubFetcher counts calls and returns canned papers.
type stubFetcher struct {
	papers    []types.Paper
	reference []types.Paper
	err       error

	fetchAllCalls  int
	referenceCalls int
}

func (s *stubFetcher) FetchAll(ctx context.Context, cfg types.ScoringConfig, w io.Writer) ([]types.Paper, error) {
	s.fetchAllCalls++
	return s.papers, s.err
}

func (s *stubFetcher) FetchReference(ctx context.Context, cfg types.ScoringConfig, w io.Writer) ([]types.Paper, error) {
	s.referenceCalls++
	return s.reference, s.err
}

func digestConfig() types.DigestConfig {
	return types.DigestConfig{
		Scoring: types.ScoringConfig{
			Authors:        []string{"Jane Doe"},
			Categories:     []string{"astro-ph.GA"},
			Keywords:       []string{"dark matter", "galaxy"},
			DaysBack:       7,
			ReferenceLimit: 50,
			AuthorWeight:   0.6,
			MinScore:       0.3,
			UseSimilarity:  true,
			SelectionMode:  types.ModeThreshold,
			MaxPapers:      20,
		},
	}
}

func fetchedPapers() []types.Paper {
	return []types.Paper{
		{ID: "2408.00001", Title: "Dark matter halos", Abstract: "We study dark matter halos.",
			Authors: []string{"Jane Doe"}, PrimaryCategory: "astro-ph.GA", Categories: []string{"astro-ph.GA"}},
		{ID: "2408.00002", Title: "Unrelated topology", Abstract: "Pure mathematics.",
			Authors: []string{"X"}, PrimaryCategory: "math.GT", Categories: []string{"math.GT"}},
	}
}

func newGenerator(t *testing.T, fetcher *stubFetcher) *Generator {
	t.Helper()
	store, err := cache.NewStore(t.TempDir())
	require.NoError(t, err)
	return &Generator{
		Config:  digestConfig(),
		Cache:   store,
		Fetcher: fetcher,
		Out:     io.Discard,
	}
}

func TestRunFetchesAndRanks(t *testing.T) {
	fetcher := &stubFetcher{
		papers:    fetchedPapers(),
		reference: []types.Paper{{ID: "r1", Title: "Dark matter halo formation", Abstract: "Halos."}},
	}
	g := newGenerator(t, fetcher)

	result, err := g.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.False(t, result.FromCache)
	assert.Equal(t, 1, fetcher.fetchAllCalls)
	assert.Equal(t, 1, fetcher.referenceCalls)
	require.Len(t, result.Papers, 1)
	assert.Equal(t, "2408.00001", result.Papers[0].ID)
	assert.Equal(t, 1, result.Stats.Total)
}

func TestRunSavesAllCacheKinds(t *testing.T) {
	fetcher := &stubFetcher{
		papers:    fetchedPapers(),
		reference: []types.Paper{{ID: "r1", Title: "Halo formation", Abstract: "Halos."}},
	}
	g := newGenerator(t, fetcher)

	_, err := g.Run(context.Background(), Options{})
	require.NoError(t, err)

	scoring := g.Config.Scoring
	for _, kind := range cache.Kinds {
		_, ok := g.Cache.Load(kind, scoring)
		assert.True(t, ok, "cache kind %s not saved", kind)
	}
}

func TestSecondRunServedFromCache(t *testing.T) {
	fetcher := &stubFetcher{papers: fetchedPapers()}
	g := newGenerator(t, fetcher)

	_, err := g.Run(context.Background(), Options{})
	require.NoError(t, err)

	result, err := g.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.True(t, result.FromCache)
	assert.Equal(t, 1, fetcher.fetchAllCalls, "second run should not refetch")
}

func TestForceRefreshRefetches(t *testing.T) {
	fetcher := &stubFetcher{papers: fetchedPapers()}
	g := newGenerator(t, fetcher)

	_, err := g.Run(context.Background(), Options{})
	require.NoError(t, err)

	result, err := g.Run(context.Background(), Options{ForceRefresh: true})
	require.NoError(t, err)

	assert.False(t, result.FromCache)
	assert.Equal(t, 2, fetcher.fetchAllCalls)
}

func TestRenderOnly(t *testing.T) {
	fetcher := &stubFetcher{papers: fetchedPapers()}
	g := newGenerator(t, fetcher)

	// Without a prior full run the filtered cache is absent.
	_, err := g.Run(context.Background(), Options{RenderOnly: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render-only")
	assert.Zero(t, fetcher.fetchAllCalls, "render-only must never fetch")

	_, err = g.Run(context.Background(), Options{})
	require.NoError(t, err)
	fetchesAfterFullRun := fetcher.fetchAllCalls

	result, err := g.Run(context.Background(), Options{RenderOnly: true})
	require.NoError(t, err)
	assert.True(t, result.FromCache)
	require.Len(t, result.Papers, 1)
	assert.Equal(t, fetchesAfterFullRun, fetcher.fetchAllCalls)
}

func TestSimilarityDisabledSkipsReferenceFetch(t *testing.T) {
	fetcher := &stubFetcher{papers: fetchedPapers()}
	g := newGenerator(t, fetcher)
	g.Config.Scoring.UseSimilarity = false

	_, err := g.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.Zero(t, fetcher.referenceCalls)
}

func TestNoAuthorsSkipsReferenceFetch(t *testing.T) {
	fetcher := &stubFetcher{papers: fetchedPapers()}
	g := newGenerator(t, fetcher)
	g.Config.Scoring.Authors = nil

	_, err := g.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.Zero(t, fetcher.referenceCalls)
}

func TestEmptyReferenceCorpusDoesNotFail(t *testing.T) {
	fetcher := &stubFetcher{papers: fetchedPapers(), reference: nil}
	g := newGenerator(t, fetcher)

	result, err := g.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.Len(t, result.Papers, 1)
}

func TestInvalidConfigRejectedBeforeFetch(t *testing.T) {
	fetcher := &stubFetcher{}
	g := newGenerator(t, fetcher)
	g.Config.Scoring.DaysBack = 0

	_, err := g.Run(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Zero(t, fetcher.fetchAllCalls)
}

func TestFetchErrorPropagates(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("network down")}
	g := newGenerator(t, fetcher)

	_, err := g.Run(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching papers")
}

func TestHistoryRecording(t *testing.T) {
	fetcher := &stubFetcher{papers: fetchedPapers()}
	g := newGenerator(t, fetcher)

	hist, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer hist.Close()
	g.History = hist

	result, err := g.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.Zero(t, result.PreviouslyFeatured, "first run has no prior features")

	runs, err := hist.Runs(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].Fetched)
	assert.Equal(t, 1, runs[0].Selected)

	// A second run selects the same paper again.
	result, err = g.Run(context.Background(), Options{ForceRefresh: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.PreviouslyFeatured)
}
