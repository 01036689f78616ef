// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"html"
	"io"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// HTML renders the digest as a standalone HTML preview page.
type HTML struct{}

// Render writes the HTML digest to w.
func (HTML) Render(w io.Writer, d Digest) error {
	fmt.Fprintln(w, "<!DOCTYPE html>")
	fmt.Fprintln(w, `<html lang="en"><head><meta charset="utf-8">`)
	fmt.Fprintf(w, "<title>arXiv Digest %s</title>\n", d.GeneratedAt.Format("2006-01-02"))
	fmt.Fprintln(w, `<style>
body { font-family: Georgia, serif; max-width: 50em; margin: 2em auto; padding: 0 1em; }
h2 { border-bottom: 1px solid #ccc; }
.meta { color: #555; font-size: 0.9em; }
.score { font-weight: bold; }
</style></head><body>`)

	fmt.Fprintf(w, "<h1>arXiv Digest: %s</h1>\n", d.GeneratedAt.Format("January 2, 2006"))
	fmt.Fprintf(w, `<p class="meta">%d papers | average relevance %.2f</p>`+"\n", d.Stats.Total, d.Stats.AverageScore)

	if len(d.Papers) == 0 {
		fmt.Fprintln(w, "<p>No papers matched your interests this time.</p>")
		fmt.Fprintln(w, "</body></html>")
		return nil
	}

	if d.Options.GroupByCategory {
		for _, cat := range sortedCategories(d.Groups) {
			fmt.Fprintf(w, "<h2>%s</h2>\n", html.EscapeString(cat))
			for _, p := range d.Groups[cat] {
				writeHTMLPaper(w, p, d.Options)
			}
		}
	} else {
		for _, p := range d.Papers {
			writeHTMLPaper(w, p, d.Options)
		}
	}

	fmt.Fprintln(w, "</body></html>")
	return nil
}

func writeHTMLPaper(w io.Writer, p types.Paper, opts types.OutputConfig) {
	fmt.Fprintf(w, "<h3>%s</h3>\n", html.EscapeString(p.Title))
	fmt.Fprintf(w, `<p class="meta"><em>%s</em></p>`+"\n", html.EscapeString(formatAuthors(p.Authors, 6)))
	fmt.Fprintf(w, `<p><span class="score">Score %.2f</span> | %s</p>`+"\n",
		p.Score, html.EscapeString(p.MatchReason))

	if opts.IncludeAbstracts && p.Abstract != "" {
		fmt.Fprintf(w, "<p>%s</p>\n", html.EscapeString(abstractFor(p, opts)))
	}

	if opts.IncludeLinks {
		fmt.Fprintf(w, `<p><a href="%s">abstract</a>`, html.EscapeString(p.AbstractURL))
		if p.PDFURL != "" {
			fmt.Fprintf(w, ` | <a href="%s">pdf</a>`, html.EscapeString(p.PDFURL))
		}
		if opts.IncludeADSLinks && p.ADSURL != "" {
			fmt.Fprintf(w, ` | <a href="%s">ads</a>`, html.EscapeString(p.ADSURL))
		}
		fmt.Fprintln(w, "</p>")
	}
}
