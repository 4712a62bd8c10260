// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the corpus-engine pipeline.
// Implements: prd101-corpus (Article, AuthorMention);
//
//	prd102-query-understanding (QueryPlan, AuthorMatch);
//	prd103-ranking (ScoredResult, MatchKind);
//	prd105-suggestions (Suggestion, AuthorStats).
//
// See docs/ARCHITECTURE.md § Data Structures.
package types

// AuthorMention is a (name, affiliation) pair attached to an Article. It is
// not independently addressable; identity lives in the author index, keyed by
// normalized name.
type AuthorMention struct {
	// Name is the author display name as it appeared in the source record.
	Name string `json:"name" yaml:"name"`

	// Affiliation is the free-text affiliation, when the source provided one.
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
}

// Article is one corpus record. Articles are immutable once ingested; the
// engine only reads snapshots produced by the corpus store.
type Article struct {
	// ID is the stable source identifier (arXiv ID, DOI, or Scopus ID).
	ID string `json:"id" yaml:"id"`

	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the article abstract or summary.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Published is the publication date as an ISO date ("2015-06-09") or a
	// bare year ("2015"). Kept as a string so partial dates survive ingest;
	// ISO dates compare correctly as strings for recency ordering.
	Published string `json:"published" yaml:"published"`

	// Authors lists the author mentions in source order.
	Authors []AuthorMention `json:"authors" yaml:"authors"`

	// Categories lists subject tags (e.g. "cs.LG").
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// DOI is the DOI when the source provided one.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// PDFURL is a link to the full text, when available.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`
}

// Year returns the 4-digit publication year, or "" when Published carries no
// parsable year. Year filters compare these strings lexicographically.
func (a Article) Year() string {
	if len(a.Published) < 4 {
		return ""
	}
	y := a.Published[:4]
	for _, c := range y {
		if c < '0' || c > '9' {
			return ""
		}
	}
	return y
}

// AuthorNames returns the display names of all author mentions in order.
func (a Article) AuthorNames() []string {
	names := make([]string, 0, len(a.Authors))
	for _, m := range a.Authors {
		names = append(names, m.Name)
	}
	return names
}
