// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch queries the arXiv API for candidate and reference papers.
// It is the data-source boundary of the pipeline: results come back as
// de-duplicated Paper records, newest first.
package fetch

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/arxiv-digest/internal/httputil"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests can
// substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// Per-query result caps, matching the arXiv API's paging expectations.
const (
	authorQueryLimit   = 100
	categoryQueryLimit = 200
	keywordQueryLimit  = 200
)

// Client fetches papers from the arXiv API.
type Client struct {
	httpClient *http.Client
	cfg        types.FetchConfig

	// now is stubbed in tests to pin the days-back cutoff.
	now func() time.Time
}

// NewClient builds a Client from the fetch configuration.
func NewClient(cfg types.FetchConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		cfg:        cfg,
		now:        time.Now,
	}
}

// FetchAll queries arXiv by followed authors, categories, and keywords
// within the days-back window, de-duplicates by arXiv ID, and returns the
// combined list sorted newest first. Individual query failures are warned
// to w and skipped; the remaining queries still contribute.
func (c *Client) FetchAll(ctx context.Context, cfg types.ScoringConfig, w io.Writer) ([]types.Paper, error) {
	cutoff := c.now().UTC().AddDate(0, 0, -cfg.DaysBack)

	var all []types.Paper
	seen := make(map[string]bool)
	add := func(papers []types.Paper) {
		for _, p := range papers {
			if p.ID == "" || seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			all = append(all, p)
		}
	}

	if len(cfg.Authors) > 0 {
		fmt.Fprintf(w, "Fetching papers by %d authors...\n", len(cfg.Authors))
		for _, author := range cfg.Authors {
			papers, err := c.search(ctx, authorQuery(author), authorQueryLimit, "submittedDate", cutoff)
			if err != nil {
				fmt.Fprintf(w, "warning: fetching papers for author %q: %v\n", author, err)
				continue
			}
			add(papers)
			c.pause(ctx)
		}
	}

	if len(cfg.Categories) > 0 {
		fmt.Fprintf(w, "Fetching papers from %d categories...\n", len(cfg.Categories))
		for _, category := range cfg.Categories {
			papers, err := c.search(ctx, "cat:"+category, categoryQueryLimit, "submittedDate", cutoff)
			if err != nil {
				fmt.Fprintf(w, "warning: fetching papers for category %q: %v\n", category, err)
				continue
			}
			add(papers)
			c.pause(ctx)
		}
	}

	if len(cfg.Keywords) > 0 {
		fmt.Fprintf(w, "Fetching papers matching %d keywords...\n", len(cfg.Keywords))
		papers, err := c.search(ctx, keywordQuery(cfg.Keywords), keywordQueryLimit, "submittedDate", cutoff)
		if err != nil {
			fmt.Fprintf(w, "warning: fetching papers by keywords: %v\n", err)
		} else {
			add(papers)
		}
	}

	sortNewestFirst(all)
	fmt.Fprintf(w, "Total unique papers found: %d\n", len(all))
	return all, ctx.Err()
}

// FetchReference pulls up to cfg.ReferenceLimit relevance-sorted papers by
// the followed authors. No date cutoff applies: the reference corpus
// represents the authors' body of work, not just recent activity.
func (c *Client) FetchReference(ctx context.Context, cfg types.ScoringConfig, w io.Writer) ([]types.Paper, error) {
	if len(cfg.Authors) == 0 {
		return nil, nil
	}

	fmt.Fprintln(w, "Fetching reference papers from followed authors...")

	perAuthor := cfg.ReferenceLimit/len(cfg.Authors) + 1
	var papers []types.Paper
	seen := make(map[string]bool)
	for _, author := range cfg.Authors {
		results, err := c.search(ctx, authorQuery(author), perAuthor, "relevance", time.Time{})
		if err != nil {
			fmt.Fprintf(w, "warning: fetching reference papers for %q: %v\n", author, err)
			continue
		}
		for _, p := range results {
			if p.ID == "" || seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			papers = append(papers, p)
			if len(papers) >= cfg.ReferenceLimit {
				break
			}
		}
		if len(papers) >= cfg.ReferenceLimit {
			break
		}
		c.pause(ctx)
	}

	fmt.Fprintf(w, "Fetched %d reference papers\n", len(papers))
	return papers, ctx.Err()
}

// pause spaces out consecutive API queries per the arXiv usage policy.
func (c *Client) pause(ctx context.Context) {
	if c.cfg.InterQueryDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(c.cfg.InterQueryDelay):
	}
}

// search runs one arXiv API query and converts the Atom feed to papers.
// A non-zero cutoff drops entries published before it; results arrive
// sorted by the requested criterion so the scan stops at the first entry
// past the cutoff when sorting by submission date.
func (c *Client) search(ctx context.Context, query string, maxResults int, sortBy string, cutoff time.Time) ([]types.Paper, error) {
	params := url.Values{
		"search_query": {query},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(maxResults)},
		"sortBy":       {sortBy},
		"sortOrder":    {"descending"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var papers []types.Paper
	for _, entry := range feed.Entries {
		p, ok := paperFromEntry(entry)
		if !ok {
			continue
		}
		if !cutoff.IsZero() && p.Published.Before(cutoff) {
			if sortBy == "submittedDate" {
				break
			}
			continue
		}
		papers = append(papers, p)
	}
	return papers, nil
}

func authorQuery(author string) string {
	return fmt.Sprintf("au:%q", author)
}

// keywordQuery ORs together title and abstract matches for every keyword.
func keywordQuery(keywords []string) string {
	parts := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		parts = append(parts, fmt.Sprintf("(ti:%q OR abs:%q)", kw, kw))
	}
	return strings.Join(parts, " OR ")
}

func sortNewestFirst(papers []types.Paper) {
	sort.SliceStable(papers, func(i, j int) bool {
		return papers[i].Published.After(papers[j].Published)
	})
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID              string          `xml:"id"`
	Title           string          `xml:"title"`
	Summary         string          `xml:"summary"`
	Published       string          `xml:"published"`
	Updated         string          `xml:"updated"`
	Authors         []arxivAuthor   `xml:"author"`
	Categories      []arxivCategory `xml:"category"`
	PrimaryCategory arxivCategory   `xml:"http://arxiv.org/schemas/atom primary_category"`
	Links           []arxivLink     `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
}

// paperFromEntry converts one Atom entry to a Paper. Entries without a
// recognizable arXiv ID are dropped.
func paperFromEntry(entry arxivEntry) (types.Paper, bool) {
	id := extractArxivID(entry.ID)
	if id == "" {
		return types.Paper{}, false
	}

	p := types.Paper{
		ID:          id,
		Title:       strings.Join(strings.Fields(entry.Title), " "),
		Abstract:    strings.TrimSpace(entry.Summary),
		AbstractURL: entry.ID,
		ADSURL:      types.ADSURLFor(id),
	}

	for _, a := range entry.Authors {
		p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
	}
	for _, c := range entry.Categories {
		if c.Term != "" {
			p.Categories = append(p.Categories, c.Term)
		}
	}
	p.PrimaryCategory = entry.PrimaryCategory.Term
	if p.PrimaryCategory == "" && len(p.Categories) > 0 {
		p.PrimaryCategory = p.Categories[0]
	}

	if t, err := time.Parse(time.RFC3339, entry.Published); err == nil {
		p.Published = t
	}
	if t, err := time.Parse(time.RFC3339, entry.Updated); err == nil {
		p.Updated = t
	}

	for _, l := range entry.Links {
		if l.Title == "pdf" || strings.Contains(l.Href, "/pdf/") {
			p.PDFURL = l.Href
			break
		}
	}
	return p, true
}

// extractArxivID pulls the version-independent arXiv ID from the entry's
// <id> URL (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
