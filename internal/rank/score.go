// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"fmt"
	"math"
	"strings"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// Keyword contributions: 0.2 per distinct matched keyword, capped at 0.5.
const (
	keywordStep = 0.2
	keywordCap  = 0.5
)

// simReasonFloor is the similarity below which the reason string omits the
// similarity fragment. Display-only; the score contribution is unaffected.
const simReasonFloor = 0.3

// Scorer computes relevance scores for individual papers. The three signals
// are additive: author match contributes AuthorWeight, keywords contribute
// min(0.2*k, 0.5), and similarity contributes sim * (1 - AuthorWeight).
type Scorer struct {
	cfg types.ScoringConfig

	// followed pairs each configured author name with its normalized form.
	followed []followedAuthor

	// keywords pairs each configured keyword with its lowercased form.
	keywords []keyword
}

type followedAuthor struct {
	name       string
	normalized string
}

type keyword struct {
	name    string
	lowered string
}

// NewScorer builds a Scorer with the configured author names and keywords
// pre-normalized.
func NewScorer(cfg types.ScoringConfig) *Scorer {
	s := &Scorer{cfg: cfg}
	for _, a := range cfg.Authors {
		if n := Normalize(a); n != "" {
			s.followed = append(s.followed, followedAuthor{name: a, normalized: n})
		}
	}
	for _, kw := range cfg.Keywords {
		if kw != "" {
			s.keywords = append(s.keywords, keyword{name: kw, lowered: strings.ToLower(kw)})
		}
	}
	return s
}

// Score writes the relevance score and match reason into p and reports
// whether a followed author matched. sim is the precomputed similarity for
// this paper; simEnabled is false when the similarity signal is off or the
// reference corpus was empty.
func (s *Scorer) Score(p *types.Paper, sim float64, simEnabled bool) (authorMatched bool) {
	score := 0.0
	var reasons []string

	if name, ok := s.matchAuthor(p.Authors); ok {
		authorMatched = true
		score += s.cfg.AuthorWeight
		reasons = append(reasons, "Author: "+name)
	}

	if matched := s.matchKeywords(p.SearchText()); len(matched) > 0 {
		score += math.Min(float64(len(matched))*keywordStep, keywordCap)
		reasons = append(reasons, "Keywords: "+strings.Join(matched, ", "))
	}

	if simEnabled {
		score += sim * (1 - s.cfg.AuthorWeight)
		if sim > simReasonFloor {
			reasons = append(reasons, fmt.Sprintf("Similarity: %.2f", sim))
		}
	}

	p.Score = score
	if len(reasons) > 0 {
		p.MatchReason = strings.Join(reasons, "; ")
	} else {
		p.MatchReason = "Category match"
	}
	return authorMatched
}

// matchAuthor reports the first configured author matching a paper author.
// Two normalized names match when one contains the other, or when they
// share a surname and the given names agree by prefix ("j doe" matches
// "jane doe"). The check is deliberately tolerant rather than precise: it
// accepts initials versus full first names at the cost of false positives
// on short name fragments ("lee" matches any author containing "lee").
func (s *Scorer) matchAuthor(paperAuthors []string) (string, bool) {
	for _, author := range paperAuthors {
		normalized := Normalize(author)
		if normalized == "" {
			continue
		}
		for _, target := range s.followed {
			if namesMatch(normalized, target.normalized) {
				return target.name, true
			}
		}
	}
	return "", false
}

func namesMatch(a, b string) bool {
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	return initialsMatch(strings.Fields(a), strings.Fields(b))
}

// initialsMatch compares two tokenized names with initials tolerance: the
// surnames (last tokens) must be equal, and every given-name token of the
// shorter name must prefix-match a given-name token of the longer one, in
// order.
func initialsMatch(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	if a[len(a)-1] != b[len(b)-1] {
		return false
	}
	givenA, givenB := a[:len(a)-1], b[:len(b)-1]
	if len(givenA) > len(givenB) {
		givenA, givenB = givenB, givenA
	}
	j := 0
	for _, tok := range givenA {
		for j < len(givenB) && !prefixMatch(tok, givenB[j]) {
			j++
		}
		if j == len(givenB) {
			return false
		}
		j++
	}
	return true
}

func prefixMatch(a, b string) bool {
	return strings.HasPrefix(a, b) || strings.HasPrefix(b, a)
}

// matchKeywords returns the configured keywords present in text as
// substrings. Matching is case-insensitive; no punctuation stripping.
func (s *Scorer) matchKeywords(text string) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, kw := range s.keywords {
		if strings.Contains(lower, kw.lowered) {
			matched = append(matched, kw.name)
		}
	}
	return matched
}
