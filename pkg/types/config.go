// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// SelectionMode controls how the ranking pipeline chooses papers for the digest.
type SelectionMode string

const (
	// ModeThreshold keeps only papers that clear the minimum score (or match
	// a followed author). The digest may come out shorter than max_papers.
	ModeThreshold SelectionMode = "threshold"

	// ModeFill backfills the highest-scoring below-threshold papers until
	// max_papers is reached.
	ModeFill SelectionMode = "fill"
)

// ScoringConfig holds the resolved settings that drive fetching, scoring,
// and selection. It is built once at startup and passed by value; nothing
// mutates it after validation.
type ScoringConfig struct {
	// Authors lists followed author names.
	Authors []string `json:"authors" yaml:"authors"`

	// Categories lists arXiv categories to pull papers from.
	Categories []string `json:"categories" yaml:"categories"`

	// Keywords lists search keywords, matched case-insensitively.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// ExcludeKeywords drops any paper whose title or abstract contains one.
	ExcludeKeywords []string `json:"exclude_keywords" yaml:"exclude_keywords"`

	// ExcludeCategories drops papers with a category matching one of these
	// prefixes (e.g. "hep-" excludes all high-energy physics categories).
	ExcludeCategories []string `json:"exclude_categories" yaml:"exclude_categories"`

	// DaysBack is the look-back window for fetched papers.
	DaysBack int `json:"days_back" yaml:"days_back"`

	// ReferenceLimit caps the reference corpus fetched for the similarity model.
	ReferenceLimit int `json:"reference_limit" yaml:"reference_limit"`

	// MaxAuthors drops papers with more authors than this (0 = no limit).
	MaxAuthors int `json:"max_authors" yaml:"max_authors"`

	// MinAuthors drops papers with fewer authors than this (0 = no limit).
	MinAuthors int `json:"min_authors" yaml:"min_authors"`

	// AuthorWeight is the score contribution of an author match, in [0, 1].
	// The similarity signal is weighted by 1 - AuthorWeight so the two
	// share a fixed budget.
	AuthorWeight float64 `json:"author_weight" yaml:"author_weight"`

	// MinScore is the relevance threshold a paper must clear unless it
	// matched a followed author.
	MinScore float64 `json:"min_similarity_score" yaml:"min_similarity_score"`

	// UseSimilarity enables the TF-IDF similarity signal.
	UseSimilarity bool `json:"use_semantic_similarity" yaml:"use_semantic_similarity"`

	// SelectionMode is "threshold" or "fill".
	SelectionMode SelectionMode `json:"selection_mode" yaml:"selection_mode"`

	// MaxPapers caps the digest length.
	MaxPapers int `json:"max_papers" yaml:"max_papers"`
}

// Validate rejects out-of-range settings before the pipeline runs. Weights
// are never clamped: a bad author_weight would silently rescale every score.
func (c ScoringConfig) Validate() error {
	if c.DaysBack < 1 {
		return fmt.Errorf("days_back must be at least 1, got %d", c.DaysBack)
	}
	if c.MaxPapers < 1 {
		return fmt.Errorf("max_papers must be at least 1, got %d", c.MaxPapers)
	}
	if c.ReferenceLimit < 1 {
		return fmt.Errorf("reference_limit must be at least 1, got %d", c.ReferenceLimit)
	}
	if c.AuthorWeight < 0 || c.AuthorWeight > 1 {
		return fmt.Errorf("author_weight must be in [0, 1], got %g", c.AuthorWeight)
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("min_similarity_score must be in [0, 1], got %g", c.MinScore)
	}
	switch c.SelectionMode {
	case ModeThreshold, ModeFill:
	default:
		return fmt.Errorf("selection_mode must be %q or %q, got %q", ModeThreshold, ModeFill, c.SelectionMode)
	}
	return nil
}

// HTTPConfig holds shared HTTP settings for the fetch stage.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with arXiv API requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the arXiv fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// InterQueryDelay is the pause between consecutive arXiv API queries
	// (default 1s; the API asks clients to space requests out).
	InterQueryDelay time.Duration `json:"inter_query_delay" yaml:"inter_query_delay"`
}

// OutputFormat selects the digest rendering format.
type OutputFormat string

const (
	OutputMarkdown OutputFormat = "markdown"
	OutputLaTeX    OutputFormat = "latex"
	OutputHTML     OutputFormat = "html"
)

// OutputConfig holds settings for digest rendering.
type OutputConfig struct {
	// Directory is where rendered digests are written.
	Directory string `json:"directory" yaml:"directory"`

	// Filename is the output filename pattern; "{date}" expands to YYYY-MM-DD.
	Filename string `json:"filename" yaml:"filename"`

	// Format selects the renderer: markdown, latex, or html.
	Format OutputFormat `json:"format" yaml:"format"`

	// IncludeAbstracts includes paper abstracts in the digest.
	IncludeAbstracts bool `json:"include_abstracts" yaml:"include_abstracts"`

	// FullAbstracts disables abstract truncation.
	FullAbstracts bool `json:"full_abstracts" yaml:"full_abstracts"`

	// IncludeLinks includes abstract/PDF links.
	IncludeLinks bool `json:"include_links" yaml:"include_links"`

	// IncludeADSLinks includes NASA ADS links.
	IncludeADSLinks bool `json:"include_ads_links" yaml:"include_ads_links"`

	// GroupByCategory renders papers grouped under their primary category.
	GroupByCategory bool `json:"group_by_category" yaml:"group_by_category"`
}

// Path returns the output file path for a digest generated at t.
func (o OutputConfig) Path(t time.Time) string {
	name := o.Filename
	if name == "" {
		name = "arxiv_digest_{date}.md"
	}
	name = strings.ReplaceAll(name, "{date}", t.Format("2006-01-02"))
	if o.Directory == "" {
		return name
	}
	return filepath.Join(o.Directory, name)
}

// CacheConfig holds settings for the on-disk cache.
type CacheConfig struct {
	// Dir is the cache directory (default ".cache").
	Dir string `json:"dir" yaml:"dir"`
}

// HistoryConfig holds settings for the run-history store.
type HistoryConfig struct {
	// Path is the SQLite database file (default ".cache/history.db").
	// Empty disables history recording.
	Path string `json:"path" yaml:"path"`
}

// DigestConfig groups all stage configurations.
type DigestConfig struct {
	Scoring ScoringConfig `json:"scoring" yaml:"scoring"`
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	Output  OutputConfig  `json:"output" yaml:"output"`
	Cache   CacheConfig   `json:"cache" yaml:"cache"`
	History HistoryConfig `json:"history" yaml:"history"`
}
