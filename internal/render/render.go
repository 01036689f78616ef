// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns a ranked paper list into a formatted digest
// document. Renderers consume the papers, grouping, and statistics views
// read-only; file placement is the caller's concern.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/arxiv-digest/internal/rank"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// abstractLimit is the truncation length for abstracts unless full
// abstracts are requested.
const abstractLimit = 300

// Digest is the read-only input to a Renderer.
type Digest struct {
	GeneratedAt time.Time
	Papers      []types.Paper
	Groups      map[string][]types.Paper
	Stats       rank.Statistics
	Options     types.OutputConfig
}

// NewDigest assembles the rendering views for a ranked paper list.
func NewDigest(papers []types.Paper, stats rank.Statistics, opts types.OutputConfig, now time.Time) Digest {
	return Digest{
		GeneratedAt: now,
		Papers:      papers,
		Groups:      rank.GroupByCategory(papers),
		Stats:       stats,
		Options:     opts,
	}
}

// Renderer writes a digest document to w.
type Renderer interface {
	Render(w io.Writer, d Digest) error
}

// ForFormat returns the renderer for an output format.
func ForFormat(format types.OutputFormat) (Renderer, error) {
	switch format {
	case types.OutputMarkdown, "":
		return Markdown{}, nil
	case types.OutputLaTeX:
		return LaTeX{}, nil
	case types.OutputHTML:
		return HTML{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// sortedCategories returns the group keys ordered by descending paper
// count, ties alphabetical, so rendering is deterministic.
func sortedCategories(groups map[string][]types.Paper) []string {
	cats := make([]string, 0, len(groups))
	for cat := range groups {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		if len(groups[cats[i]]) != len(groups[cats[j]]) {
			return len(groups[cats[i]]) > len(groups[cats[j]])
		}
		return cats[i] < cats[j]
	})
	return cats
}

// abstractFor returns the abstract subject to the truncation option.
func abstractFor(p types.Paper, opts types.OutputConfig) string {
	if opts.FullAbstracts || len(p.Abstract) <= abstractLimit {
		return p.Abstract
	}
	cut := p.Abstract[:abstractLimit]
	// Break at the last space so a word is never split.
	for i := len(cut) - 1; i > 0; i-- {
		if cut[i] == ' ' {
			cut = cut[:i]
			break
		}
	}
	return cut + "..."
}

func formatAuthors(authors []string, max int) string {
	if len(authors) <= max {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:max], ", ") + " et al."
}
