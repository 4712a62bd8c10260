// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch acquires articles from the arXiv API to seed the corpus.
// Implements: prd101-corpus (R6, acquisition).
package fetch

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/corpus-engine/internal/httputil"
	"github.com/pdiddy/corpus-engine/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// Fetcher pulls article metadata from arXiv, one request per seed query.
type Fetcher struct {
	client *http.Client
	cfg    types.FetchConfig
}

// New builds a Fetcher from cfg, applying defaults for missing fields.
func New(cfg types.FetchConfig) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "corpus-engine/0.1"
	}
	if cfg.MaxPerQuery <= 0 {
		cfg.MaxPerQuery = 100
	}
	if cfg.RequestDelay <= 0 {
		cfg.RequestDelay = time.Second
	}
	return &Fetcher{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

// FetchAll runs every configured seed query and returns the deduplicated
// union of results. Progress lines go to w. A failing query aborts the
// whole run; partial corpora lead to confusing retrieval later.
func (f *Fetcher) FetchAll(ctx context.Context, w io.Writer) ([]types.Article, error) {
	seen := make(map[string]struct{})
	var articles []types.Article

	for i, query := range f.cfg.Queries {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(f.cfg.RequestDelay):
			}
		}

		fmt.Fprintf(w, "fetching %q\n", query)
		batch, err := f.FetchQuery(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("fetching %q: %w", query, err)
		}

		var added int
		for _, a := range batch {
			if _, dup := seen[a.ID]; dup {
				continue
			}
			seen[a.ID] = struct{}{}
			articles = append(articles, a)
			added++
		}
		fmt.Fprintf(w, "  %d results, %d new\n", len(batch), added)
	}

	fmt.Fprintf(w, "\nfetched %d articles\n", len(articles))
	return articles, nil
}

// FetchQuery runs a single arXiv query, newest submissions first.
func (f *Fetcher) FetchQuery(ctx context.Context, query string) ([]types.Article, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}

	endpoint := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=submittedDate&sortOrder=descending",
		arxivAPIBase, url.QueryEscape("all:"+query), f.cfg.MaxPerQuery)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, f.client, req, 0)
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

	var articles []types.Article
	for _, entry := range feed.Entries {
		id := extractArxivID(entry.ID)
		if id == "" {
			continue
		}

		a := types.Article{
			ID:       id,
			Title:    collapseWhitespace(entry.Title),
			Abstract: collapseWhitespace(entry.Summary),
			DOI:      entry.DOI,
		}
		if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			a.Published = t.Format("2006-01-02")
		}
		for _, au := range entry.Authors {
			a.Authors = append(a.Authors, types.AuthorMention{
				Name:        strings.TrimSpace(au.Name),
				Affiliation: strings.TrimSpace(au.Affiliation),
			})
		}
		for _, c := range entry.Categories {
			if c.Term != "" {
				a.Categories = append(a.Categories, c.Term)
			}
		}
		for _, l := range entry.Links {
			if l.Title == "pdf" {
				a.PDFURL = l.Href
			}
		}

		articles = append(articles, a)
	}
	return articles, nil
}

// collapseWhitespace flattens the newline-wrapped text arXiv returns.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string          `xml:"id"`
	Title      string          `xml:"title"`
	Summary    string          `xml:"summary"`
	Published  string          `xml:"published"`
	DOI        string          `xml:"doi"`
	Authors    []arxivAuthor   `xml:"author"`
	Categories []arxivCategory `xml:"category"`
	Links      []arxivLink     `xml:"link"`
}

type arxivAuthor struct {
	Name        string `xml:"name"`
	Affiliation string `xml:"affiliation"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}

type arxivLink struct {
	Title string `xml:"title,attr"`
	Href  string `xml:"href,attr"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
