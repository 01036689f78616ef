// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/arxiv-digest/internal/rank"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

var renderTime = time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)

func renderOpts() types.OutputConfig {
	return types.OutputConfig{
		GroupByCategory:  true,
		IncludeAbstracts: true,
		IncludeLinks:     true,
		IncludeADSLinks:  true,
	}
}

func renderPapers() []types.Paper {
	return []types.Paper{
		{
			ID:              "2408.00001",
			Title:           "Dark matter & baryons: a 100% model",
			Authors:         []string{"Jane Doe", "Albert Roe"},
			Abstract:        "We study dark matter.",
			PrimaryCategory: "astro-ph.GA",
			Categories:      []string{"astro-ph.GA"},
			AbstractURL:     "http://arxiv.org/abs/2408.00001",
			PDFURL:          "http://arxiv.org/pdf/2408.00001",
			ADSURL:          "https://ui.adsabs.harvard.edu/abs/arXiv:2408.00001/abstract",
			Score:           0.85,
			MatchReason:     "Author: Jane Doe",
		},
		{
			ID:              "2408.00002",
			Title:           "Galaxy formation",
			Authors:         []string{"X"},
			Abstract:        "A study of galaxies.",
			PrimaryCategory: "astro-ph.CO",
			Categories:      []string{"astro-ph.CO"},
			AbstractURL:     "http://arxiv.org/abs/2408.00002",
			Score:           0.40,
			MatchReason:     "Keywords: galaxy",
		},
	}
}

func renderDigest(opts types.OutputConfig) Digest {
	papers := renderPapers()
	return NewDigest(papers, rank.GetStatistics(papers, types.ScoringConfig{}), opts, renderTime)
}

func renderTo(t *testing.T, r Renderer, d Digest) string {
	t.Helper()
	var b strings.Builder
	if err := r.Render(&b, d); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return b.String()
}

func TestForFormat(t *testing.T) {
	for _, format := range []types.OutputFormat{types.OutputMarkdown, types.OutputLaTeX, types.OutputHTML, ""} {
		if _, err := ForFormat(format); err != nil {
			t.Errorf("ForFormat(%q): %v", format, err)
		}
	}
	if _, err := ForFormat("docx"); err == nil {
		t.Error("ForFormat should reject unknown formats")
	}
}

func TestMarkdownRender(t *testing.T) {
	out := renderTo(t, Markdown{}, renderDigest(renderOpts()))

	for _, want := range []string{
		"# arXiv Digest: August 15, 2026",
		"2 papers | average relevance 0.62",
		"## astro-ph.GA",
		"## astro-ph.CO",
		"### Dark matter & baryons: a 100% model",
		"*Jane Doe, Albert Roe*",
		"**Score 0.85** | Author: Jane Doe",
		"We study dark matter.",
		"[abstract](http://arxiv.org/abs/2408.00001)",
		"[pdf](http://arxiv.org/pdf/2408.00001)",
		"[ads](https://ui.adsabs.harvard.edu/abs/arXiv:2408.00001/abstract)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q", want)
		}
	}
}

func TestMarkdownUngrouped(t *testing.T) {
	opts := renderOpts()
	opts.GroupByCategory = false
	out := renderTo(t, Markdown{}, renderDigest(opts))
	if strings.Contains(out, "## astro-ph.GA") {
		t.Error("ungrouped output should have no category headings")
	}
	if !strings.Contains(out, "### Dark matter") {
		t.Error("paper heading missing")
	}
}

func TestMarkdownOmitsOptionalSections(t *testing.T) {
	out := renderTo(t, Markdown{}, renderDigest(types.OutputConfig{}))
	if strings.Contains(out, "We study dark matter") {
		t.Error("abstract rendered despite IncludeAbstracts=false")
	}
	if strings.Contains(out, "[pdf]") {
		t.Error("links rendered despite IncludeLinks=false")
	}
}

func TestMarkdownEmptyDigest(t *testing.T) {
	d := NewDigest(nil, rank.GetStatistics(nil, types.ScoringConfig{}), renderOpts(), renderTime)
	out := renderTo(t, Markdown{}, d)
	if !strings.Contains(out, "No papers matched your interests this time.") {
		t.Error("empty digest message missing")
	}
}

func TestLaTeXRender(t *testing.T) {
	out := renderTo(t, LaTeX{}, renderDigest(renderOpts()))

	for _, want := range []string{
		`\documentclass[11pt]{article}`,
		`\begin{document}`,
		`\end{document}`,
		`\section*{astro-ph.GA}`,
		`\subsection*{Dark matter \& baryons: a 100\% model}`,
		`\textbf{Score 0.85}`,
		`\href{http://arxiv.org/pdf/2408.00001}{pdf}`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("latex output missing %q", want)
		}
	}
	if strings.Contains(out, "100% model") {
		t.Error("unescaped percent sign in latex output")
	}
}

func TestLaTeXEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`A & B`, `A \& B`},
		{`50% done`, `50\% done`},
		{`f_low`, `f\_low`},
		{`$1`, `\$1`},
		{`#5`, `\#5`},
		{`{group}`, `\{group\}`},
		{`a~b`, `a\textasciitilde{}b`},
		{`x^2`, `x\textasciicircum{}2`},
		{`a\b`, `a\textbackslash{}b`},
		{`plain text`, `plain text`},
	}
	for _, tt := range tests {
		if got := latexEscape(tt.in); got != tt.want {
			t.Errorf("latexEscape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHTMLRender(t *testing.T) {
	out := renderTo(t, HTML{}, renderDigest(renderOpts()))

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<h1>arXiv Digest: August 15, 2026</h1>",
		"<h2>astro-ph.GA</h2>",
		"<h3>Dark matter &amp; baryons: a 100% model</h3>",
		`<a href="http://arxiv.org/pdf/2408.00001">pdf</a>`,
		"</body></html>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("html output missing %q", want)
		}
	}
	if strings.Contains(out, "<h3>Dark matter & baryons") {
		t.Error("unescaped ampersand in html output")
	}
}

func TestHTMLEmptyDigest(t *testing.T) {
	d := NewDigest(nil, rank.GetStatistics(nil, types.ScoringConfig{}), renderOpts(), renderTime)
	out := renderTo(t, HTML{}, d)
	if !strings.Contains(out, "No papers matched") || !strings.Contains(out, "</html>") {
		t.Error("empty html digest malformed")
	}
}

func TestAbstractTruncation(t *testing.T) {
	long := strings.Repeat("word ", 100) // 500 chars
	p := types.Paper{Abstract: long}

	got := abstractFor(p, types.OutputConfig{})
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated abstract should end with ellipsis, got %q", got[len(got)-10:])
	}
	if len(got) > abstractLimit+3 {
		t.Errorf("len = %d, want <= %d", len(got), abstractLimit+3)
	}
	if strings.HasSuffix(strings.TrimSuffix(got, "..."), " ") {
		t.Error("truncation left a trailing space")
	}

	full := abstractFor(p, types.OutputConfig{FullAbstracts: true})
	if full != long {
		t.Error("FullAbstracts should return the abstract unmodified")
	}

	short := types.Paper{Abstract: "Short abstract."}
	if abstractFor(short, types.OutputConfig{}) != "Short abstract." {
		t.Error("short abstracts should not be truncated")
	}
}

func TestFormatAuthors(t *testing.T) {
	authors := []string{"A", "B", "C", "D"}
	if got := formatAuthors(authors, 6); got != "A, B, C, D" {
		t.Errorf("formatAuthors = %q", got)
	}
	if got := formatAuthors(authors, 2); got != "A, B et al." {
		t.Errorf("formatAuthors = %q", got)
	}
}

func TestSortedCategoriesDeterministic(t *testing.T) {
	groups := map[string][]types.Paper{
		"astro-ph.CO": {{}, {}},
		"astro-ph.GA": {{}, {}},
		"hep-ph":      {{}, {}, {}},
	}
	got := sortedCategories(groups)
	want := []string{"hep-ph", "astro-ph.CO", "astro-ph.GA"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
