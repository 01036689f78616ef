// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/arxiv-digest/internal/similarity"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// FilterAndRank scores every paper against the configuration and returns
// the selected digest, ordered by score descending. Papers that matched a
// followed author bypass the minimum-score threshold: the user wants
// everything from followed authors regardless of topical drift. Progress
// messages go to w.
func FilterAndRank(papers, referencePapers []types.Paper, cfg types.ScoringConfig, w io.Writer) []types.Paper {
	if len(papers) == 0 {
		return nil
	}

	fmt.Fprintf(w, "Filtering and ranking %d papers...\n", len(papers))

	papers = applyExclusions(papers, cfg, w)
	if len(papers) == 0 {
		fmt.Fprintln(w, "No papers remain after applying exclusion criteria")
		return nil
	}

	// The similarity signal degrades to disabled when the reference corpus
	// is empty; no weight is redistributed to the other signals.
	simEnabled := cfg.UseSimilarity && len(referencePapers) > 0
	var sims []float64
	if simEnabled {
		fmt.Fprintln(w, "Computing semantic similarity scores...")
		model := similarity.Fit(texts(referencePapers))
		if model.Empty() {
			simEnabled = false
		} else {
			sims = model.Similarities(texts(papers))
		}
	}

	scorer := NewScorer(cfg)
	var passed, rest []types.Paper
	for i := range papers {
		p := papers[i]
		if p.ID == "" {
			// Unscoreable record; skip it rather than abort the batch.
			fmt.Fprintf(w, "warning: skipping paper with no identifier: %q\n", p.Title)
			continue
		}
		sim := 0.0
		if simEnabled {
			sim = sims[i]
		}
		authorMatched := scorer.Score(&p, sim, simEnabled)

		if p.Score >= cfg.MinScore || authorMatched {
			passed = append(passed, p)
		} else {
			rest = append(rest, p)
		}
	}

	// Stable sorts keep original fetch order for tied scores.
	sortByScore(passed)
	if len(passed) > cfg.MaxPapers {
		passed = passed[:cfg.MaxPapers]
	}

	if cfg.SelectionMode == types.ModeFill && len(passed) < cfg.MaxPapers {
		sortByScore(rest)
		for _, p := range rest {
			if len(passed) >= cfg.MaxPapers {
				break
			}
			if p.Score <= 0 {
				break
			}
			passed = append(passed, p)
		}
		sortByScore(passed)
	}

	fmt.Fprintf(w, "Selected %d papers (mode: %s, threshold: %g)\n",
		len(passed), cfg.SelectionMode, cfg.MinScore)
	return passed
}

func sortByScore(papers []types.Paper) {
	sort.SliceStable(papers, func(i, j int) bool {
		return papers[i].Score > papers[j].Score
	})
}

func texts(papers []types.Paper) []string {
	out := make([]string, len(papers))
	for i, p := range papers {
		out[i] = p.SearchText()
	}
	return out
}

// applyExclusions drops papers that fail the configured exclusion criteria
// and reports how many were removed per criterion.
func applyExclusions(papers []types.Paper, cfg types.ScoringConfig, w io.Writer) []types.Paper {
	var kept []types.Paper
	excluded := struct{ maxAuthors, minAuthors, keywords, categories int }{}

	for _, p := range papers {
		if cfg.MaxAuthors > 0 && len(p.Authors) > cfg.MaxAuthors {
			excluded.maxAuthors++
			continue
		}
		if cfg.MinAuthors > 0 && len(p.Authors) < cfg.MinAuthors {
			excluded.minAuthors++
			continue
		}
		if containsExcludedKeyword(p, cfg.ExcludeKeywords) {
			excluded.keywords++
			continue
		}
		if hasExcludedCategory(p, cfg.ExcludeCategories) {
			excluded.categories++
			continue
		}
		kept = append(kept, p)
	}

	total := excluded.maxAuthors + excluded.minAuthors + excluded.keywords + excluded.categories
	if total > 0 {
		fmt.Fprintf(w, "Excluded %d papers:\n", total)
		if excluded.maxAuthors > 0 {
			fmt.Fprintf(w, "  - %d papers (too many authors)\n", excluded.maxAuthors)
		}
		if excluded.minAuthors > 0 {
			fmt.Fprintf(w, "  - %d papers (too few authors)\n", excluded.minAuthors)
		}
		if excluded.keywords > 0 {
			fmt.Fprintf(w, "  - %d papers (excluded keywords)\n", excluded.keywords)
		}
		if excluded.categories > 0 {
			fmt.Fprintf(w, "  - %d papers (excluded categories)\n", excluded.categories)
		}
	}
	return kept
}

func containsExcludedKeyword(p types.Paper, excludeKeywords []string) bool {
	if len(excludeKeywords) == 0 {
		return false
	}
	text := strings.ToLower(p.SearchText())
	for _, kw := range excludeKeywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func hasExcludedCategory(p types.Paper, excludeCategories []string) bool {
	for _, cat := range p.Categories {
		for _, prefix := range excludeCategories {
			if prefix != "" && strings.HasPrefix(cat, prefix) {
				return true
			}
		}
	}
	return false
}

// GroupByCategory maps each paper under its primary category only; a paper
// with several categories is never duplicated across groups.
func GroupByCategory(papers []types.Paper) map[string][]types.Paper {
	grouped := make(map[string][]types.Paper)
	for _, p := range papers {
		grouped[p.PrimaryCategory] = append(grouped[p.PrimaryCategory], p)
	}
	return grouped
}
