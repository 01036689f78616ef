// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// LaTeX renders the digest as a compilable LaTeX article.
type LaTeX struct{}

// Render writes the LaTeX digest to w.
func (LaTeX) Render(w io.Writer, d Digest) error {
	fmt.Fprintln(w, `\documentclass[11pt]{article}`)
	fmt.Fprintln(w, `\usepackage[margin=1in]{geometry}`)
	fmt.Fprintln(w, `\usepackage{hyperref}`)
	fmt.Fprintln(w, `\usepackage{parskip}`)
	fmt.Fprintf(w, `\title{arXiv Digest}`+"\n")
	fmt.Fprintf(w, `\date{%s}`+"\n", latexEscape(d.GeneratedAt.Format("January 2, 2006")))
	fmt.Fprintln(w, `\begin{document}`)
	fmt.Fprintln(w, `\maketitle`)
	fmt.Fprintf(w, "%d papers, average relevance %.2f\n\n", d.Stats.Total, d.Stats.AverageScore)

	if len(d.Papers) == 0 {
		fmt.Fprintln(w, "No papers matched your interests this time.")
		fmt.Fprintln(w, `\end{document}`)
		return nil
	}

	if d.Options.GroupByCategory {
		for _, cat := range sortedCategories(d.Groups) {
			fmt.Fprintf(w, `\section*{%s}`+"\n", latexEscape(cat))
			for _, p := range d.Groups[cat] {
				writeLaTeXPaper(w, p, d.Options)
			}
		}
	} else {
		for _, p := range d.Papers {
			writeLaTeXPaper(w, p, d.Options)
		}
	}

	fmt.Fprintln(w, `\end{document}`)
	return nil
}

func writeLaTeXPaper(w io.Writer, p types.Paper, opts types.OutputConfig) {
	fmt.Fprintf(w, `\subsection*{%s}`+"\n", latexEscape(p.Title))
	fmt.Fprintf(w, `\textit{%s}`+"\n\n", latexEscape(formatAuthors(p.Authors, 6)))
	fmt.Fprintf(w, `\textbf{Score %.2f} (%s)`+"\n\n", p.Score, latexEscape(p.MatchReason))

	if opts.IncludeAbstracts && p.Abstract != "" {
		fmt.Fprintf(w, "%s\n\n", latexEscape(abstractFor(p, opts)))
	}

	if opts.IncludeLinks {
		fmt.Fprintf(w, `\href{%s}{abstract}`, p.AbstractURL)
		if p.PDFURL != "" {
			fmt.Fprintf(w, ` \textbar{} \href{%s}{pdf}`, p.PDFURL)
		}
		if opts.IncludeADSLinks && p.ADSURL != "" {
			fmt.Fprintf(w, ` \textbar{} \href{%s}{ads}`, p.ADSURL)
		}
		fmt.Fprint(w, "\n\n")
	}
}

var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// latexEscape escapes LaTeX special characters in body text.
func latexEscape(s string) string {
	return latexReplacer.Replace(s)
}
