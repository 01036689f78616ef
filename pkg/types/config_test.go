// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"testing"
	"time"
)

func validScoringConfig() ScoringConfig {
	return ScoringConfig{
		Authors:        []string{"Jane Doe"},
		Categories:     []string{"astro-ph.GA"},
		DaysBack:       7,
		ReferenceLimit: 50,
		AuthorWeight:   0.6,
		MinScore:       0.3,
		SelectionMode:  ModeThreshold,
		MaxPapers:      20,
	}
}

func TestScoringConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ScoringConfig)
		wantErr string
	}{
		{"valid", func(c *ScoringConfig) {}, ""},
		{"fill mode", func(c *ScoringConfig) { c.SelectionMode = ModeFill }, ""},
		{"zero author weight", func(c *ScoringConfig) { c.AuthorWeight = 0 }, ""},
		{"full author weight", func(c *ScoringConfig) { c.AuthorWeight = 1 }, ""},
		{"zero days back", func(c *ScoringConfig) { c.DaysBack = 0 }, "days_back"},
		{"negative days back", func(c *ScoringConfig) { c.DaysBack = -3 }, "days_back"},
		{"zero max papers", func(c *ScoringConfig) { c.MaxPapers = 0 }, "max_papers"},
		{"zero reference limit", func(c *ScoringConfig) { c.ReferenceLimit = 0 }, "reference_limit"},
		{"author weight above one", func(c *ScoringConfig) { c.AuthorWeight = 1.5 }, "author_weight"},
		{"negative author weight", func(c *ScoringConfig) { c.AuthorWeight = -0.1 }, "author_weight"},
		{"min score above one", func(c *ScoringConfig) { c.MinScore = 2 }, "min_similarity_score"},
		{"negative min score", func(c *ScoringConfig) { c.MinScore = -0.5 }, "min_similarity_score"},
		{"unknown selection mode", func(c *ScoringConfig) { c.SelectionMode = "best" }, "selection_mode"},
		{"empty selection mode", func(c *ScoringConfig) { c.SelectionMode = "" }, "selection_mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validScoringConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not name %q", err, tt.wantErr)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	day := time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		cfg  OutputConfig
		want string
	}{
		{"defaults", OutputConfig{}, "arxiv_digest_2026-08-15.md"},
		{"directory", OutputConfig{Directory: "digests"}, "digests/arxiv_digest_2026-08-15.md"},
		{"custom filename", OutputConfig{Filename: "digest-{date}.tex"}, "digest-2026-08-15.tex"},
		{"no date placeholder", OutputConfig{Filename: "latest.md"}, "latest.md"},
		{
			"repeated placeholder",
			OutputConfig{Filename: "{date}/{date}.md"},
			"2026-08-15/2026-08-15.md",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Path(day); got != tt.want {
				t.Errorf("Path = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSearchText(t *testing.T) {
	p := Paper{Title: "Dark matter halos", Abstract: "We study halos."}
	if got := p.SearchText(); got != "Dark matter halos We study halos." {
		t.Errorf("SearchText = %q", got)
	}
}

func TestADSURLFor(t *testing.T) {
	want := "https://ui.adsabs.harvard.edu/abs/arXiv:2301.07041"
	if got := ADSURLFor("2301.07041"); got != want {
		t.Errorf("ADSURLFor = %q, want %q", got, want)
	}
}
