// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"io"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// Markdown renders the digest as a Markdown document.
type Markdown struct{}

// Render writes the Markdown digest to w.
func (Markdown) Render(w io.Writer, d Digest) error {
	fmt.Fprintf(w, "# arXiv Digest: %s\n\n", d.GeneratedAt.Format("January 2, 2006"))
	fmt.Fprintf(w, "%d papers | average relevance %.2f\n\n", d.Stats.Total, d.Stats.AverageScore)

	if len(d.Papers) == 0 {
		fmt.Fprintln(w, "No papers matched your interests this time.")
		return nil
	}

	if d.Options.GroupByCategory {
		for _, cat := range sortedCategories(d.Groups) {
			fmt.Fprintf(w, "## %s\n\n", cat)
			for _, p := range d.Groups[cat] {
				writeMarkdownPaper(w, p, d.Options)
			}
		}
	} else {
		for _, p := range d.Papers {
			writeMarkdownPaper(w, p, d.Options)
		}
	}
	return nil
}

func writeMarkdownPaper(w io.Writer, p types.Paper, opts types.OutputConfig) {
	fmt.Fprintf(w, "### %s\n\n", p.Title)
	fmt.Fprintf(w, "*%s*\n\n", formatAuthors(p.Authors, 6))
	fmt.Fprintf(w, "**Score %.2f** | %s\n\n", p.Score, p.MatchReason)

	if opts.IncludeAbstracts && p.Abstract != "" {
		fmt.Fprintf(w, "%s\n\n", abstractFor(p, opts))
	}

	if opts.IncludeLinks {
		fmt.Fprintf(w, "[abstract](%s)", p.AbstractURL)
		if p.PDFURL != "" {
			fmt.Fprintf(w, " | [pdf](%s)", p.PDFURL)
		}
		if opts.IncludeADSLinks && p.ADSURL != "" {
			fmt.Fprintf(w, " | [ads](%s)", p.ADSURL)
		}
		fmt.Fprint(w, "\n\n")
	}
}
