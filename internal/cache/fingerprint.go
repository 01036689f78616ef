// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// fingerprintKey is the subset of the scoring configuration that determines
// what gets fetched. Display-side settings (max_papers, min_similarity_score,
// selection mode) are deliberately absent: changing them must not force a
// refetch.
type fingerprintKey struct {
	Authors         []string `json:"authors"`
	Categories      []string `json:"categories"`
	Keywords        []string `json:"keywords"`
	ExcludeKeywords []string `json:"exclude_keywords"`
	DaysBack        int      `json:"days_back"`
	ReferenceLimit  int      `json:"reference_limit"`
}

// Fingerprint returns a deterministic digest of the fetch-affecting
// configuration fields. Set-valued fields are sorted first, so reordering a
// list in the config file does not invalidate the cache.
func Fingerprint(cfg types.ScoringConfig) string {
	key := fingerprintKey{
		Authors:         sortedCopy(cfg.Authors),
		Categories:      sortedCopy(cfg.Categories),
		Keywords:        sortedCopy(cfg.Keywords),
		ExcludeKeywords: sortedCopy(cfg.ExcludeKeywords),
		DaysBack:        cfg.DaysBack,
		ReferenceLimit:  cfg.ReferenceLimit,
	}

	// Marshal cannot fail on a struct of strings and ints.
	data, _ := json.Marshal(key)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func sortedCopy(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	sort.Strings(out)
	return out
}
