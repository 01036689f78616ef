// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import "github.com/pdiddy/arxiv-digest/pkg/types"

// Score band boundaries. The labels are descriptive aids for the digest
// summary, not enforced thresholds.
const (
	bandMedium = 0.3
	bandHigh   = 0.7
)

// Statistics summarizes a ranked paper list.
type Statistics struct {
	// Total is the number of papers.
	Total int `json:"total"`

	// AverageScore is the mean relevance score, 0 for an empty list.
	AverageScore float64 `json:"avg_score"`

	// Bands counts papers per relevance band: "low" (< 0.3),
	// "medium" (0.3–0.7), "high" (>= 0.7).
	Bands map[string]int `json:"bands"`

	// Categories counts papers per primary category.
	Categories map[string]int `json:"categories"`

	// Authors counts papers per followed author appearing in the author list.
	Authors map[string]int `json:"authors"`
}

// GetStatistics computes summary statistics for a ranked list. Pure
// aggregation; papers are not modified.
func GetStatistics(papers []types.Paper, cfg types.ScoringConfig) Statistics {
	stats := Statistics{
		Total:      len(papers),
		Bands:      make(map[string]int),
		Categories: make(map[string]int),
		Authors:    make(map[string]int),
	}
	if len(papers) == 0 {
		return stats
	}

	followed := make(map[string]bool, len(cfg.Authors))
	for _, a := range cfg.Authors {
		followed[a] = true
	}

	var sum float64
	for _, p := range papers {
		sum += p.Score
		stats.Bands[band(p.Score)]++
		stats.Categories[p.PrimaryCategory]++
		for _, author := range p.Authors {
			if followed[author] {
				stats.Authors[author]++
			}
		}
	}
	stats.AverageScore = sum / float64(len(papers))
	return stats
}

func band(score float64) string {
	switch {
	case score >= bandHigh:
		return "high"
	case score >= bandMedium:
		return "medium"
	default:
		return "low"
	}
}
