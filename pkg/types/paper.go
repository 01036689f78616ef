// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the arxiv-digest pipeline.
package types

import "time"

// Paper holds the metadata for one arXiv catalog entry, plus the relevance
// fields written by the ranking stage.
type Paper struct {
	// ID is the version-independent arXiv identifier (e.g. "2301.07041").
	ID string `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in published order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Categories lists the subject classifications (e.g. "astro-ph.GA").
	Categories []string `json:"categories" yaml:"categories"`

	// PrimaryCategory is the single category arXiv designates as primary.
	PrimaryCategory string `json:"primary_category" yaml:"primary_category"`

	// Published is the submission timestamp of the first version.
	Published time.Time `json:"published" yaml:"published"`

	// Updated is the timestamp of the most recent version.
	Updated time.Time `json:"updated" yaml:"updated"`

	// AbstractURL links to the arXiv abstract page.
	AbstractURL string `json:"arxiv_url" yaml:"arxiv_url"`

	// PDFURL links to the paper PDF.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// ADSURL links to the NASA ADS record for the paper.
	ADSURL string `json:"ads_url" yaml:"ads_url"`

	// Score is the relevance score assigned by the ranking stage.
	Score float64 `json:"score" yaml:"score"`

	// MatchReason is a display string describing which signals fired.
	MatchReason string `json:"match_reason" yaml:"match_reason"`
}

// SearchText returns the text the scoring and similarity stages operate on.
func (p Paper) SearchText() string {
	return p.Title + " " + p.Abstract
}

// ADSURLFor builds the NASA ADS link for an arXiv identifier.
func ADSURLFor(id string) string {
	return "https://ui.adsabs.harvard.edu/abs/arXiv:" + id
}
