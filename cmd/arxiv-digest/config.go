// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

func init() {
	viper.SetDefault("scoring.days_back", 7)
	viper.SetDefault("scoring.max_papers", 20)
	viper.SetDefault("scoring.min_similarity_score", 0.3)
	viper.SetDefault("scoring.selection_mode", string(types.ModeThreshold))
	viper.SetDefault("scoring.use_semantic_similarity", true)
	viper.SetDefault("scoring.reference_limit", 50)
	viper.SetDefault("scoring.author_weight", 0.6)

	viper.SetDefault("fetch.timeout", 30*time.Second)
	viper.SetDefault("fetch.inter_query_delay", time.Second)

	viper.SetDefault("output.directory", "digests")
	viper.SetDefault("output.filename", "arxiv_digest_{date}.md")
	viper.SetDefault("output.format", string(types.OutputMarkdown))
	viper.SetDefault("output.include_abstracts", true)
	viper.SetDefault("output.include_links", true)
	viper.SetDefault("output.include_ads_links", true)
	viper.SetDefault("output.group_by_category", true)

	viper.SetDefault("cache.dir", ".cache")
	viper.SetDefault("history.path", ".cache/history.db")
}

// loadConfig resolves the digest configuration from viper. The returned
// structs are the only configuration the pipeline sees; nothing reads
// viper past this point.
func loadConfig() types.DigestConfig {
	cfg := types.DigestConfig{
		Scoring: types.ScoringConfig{
			Authors:           viper.GetStringSlice("scoring.authors"),
			Categories:        viper.GetStringSlice("scoring.categories"),
			Keywords:          viper.GetStringSlice("scoring.keywords"),
			ExcludeKeywords:   viper.GetStringSlice("scoring.exclude_keywords"),
			ExcludeCategories: viper.GetStringSlice("scoring.exclude_categories"),
			DaysBack:          viper.GetInt("scoring.days_back"),
			ReferenceLimit:    viper.GetInt("scoring.reference_limit"),
			MaxAuthors:        viper.GetInt("scoring.max_authors"),
			MinAuthors:        viper.GetInt("scoring.min_authors"),
			AuthorWeight:      viper.GetFloat64("scoring.author_weight"),
			MinScore:          viper.GetFloat64("scoring.min_similarity_score"),
			UseSimilarity:     viper.GetBool("scoring.use_semantic_similarity"),
			SelectionMode:     types.SelectionMode(viper.GetString("scoring.selection_mode")),
			MaxPapers:         viper.GetInt("scoring.max_papers"),
		},
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("fetch.timeout"),
				UserAgent: userAgent(),
			},
			InterQueryDelay: viper.GetDuration("fetch.inter_query_delay"),
		},
		Output: types.OutputConfig{
			Directory:        viper.GetString("output.directory"),
			Filename:         viper.GetString("output.filename"),
			Format:           types.OutputFormat(viper.GetString("output.format")),
			IncludeAbstracts: viper.GetBool("output.include_abstracts"),
			FullAbstracts:    viper.GetBool("output.full_abstracts"),
			IncludeLinks:     viper.GetBool("output.include_links"),
			IncludeADSLinks:  viper.GetBool("output.include_ads_links"),
			GroupByCategory:  viper.GetBool("output.group_by_category"),
		},
		Cache: types.CacheConfig{
			Dir: viper.GetString("cache.dir"),
		},
		History: types.HistoryConfig{
			Path: viper.GetString("history.path"),
		},
	}
	return cfg
}

// userAgent builds the arXiv User-Agent, appending the contact-email secret
// when present so the API operators can reach the client owner.
func userAgent() string {
	ua := "arxiv-digest/" + version
	if email, ok := loadedSecrets["contact-email"]; ok {
		ua += " (" + email + ")"
	}
	return ua
}
