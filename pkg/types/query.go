// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SearchType classifies what a free-text query is asking for.
type SearchType string

const (
	// SearchAuthor means the query targets one or more authors directly.
	SearchAuthor SearchType = "author"

	// SearchMixed means the query combines author and topical constraints.
	SearchMixed SearchType = "mixed"

	// SearchGeneral means the query is purely topical.
	SearchGeneral SearchType = "general"

	// SearchEmpty means the query carries no searchable signal at all.
	SearchEmpty SearchType = "empty"
)

// MatchKind records how an author candidate was resolved against the index.
// Kinds are ordered by descending trust: exact > substring > surname > fuzzy.
type MatchKind string

const (
	MatchNone      MatchKind = ""
	MatchExact     MatchKind = "exact"
	MatchSubstring MatchKind = "substring"
	MatchSurname   MatchKind = "surname"
	MatchFuzzy     MatchKind = "fuzzy"
)

// Trust returns the ranking weight of the match kind. Higher is more
// trustworthy; used as a tie-break key when confidences or relevances are
// equal.
func (k MatchKind) Trust() int {
	switch k {
	case MatchExact:
		return 4
	case MatchSubstring:
		return 3
	case MatchSurname:
		return 2
	case MatchFuzzy:
		return 1
	default:
		return 0
	}
}

// AuthorMatch is one resolved author: the normalized index key, the display
// name variants seen in the corpus, and how confidently the candidate string
// mapped onto it.
type AuthorMatch struct {
	NormalizedName string    `json:"normalized_name" yaml:"normalized_name"`
	DisplayNames   []string  `json:"display_names" yaml:"display_names"`
	Kind           MatchKind `json:"kind" yaml:"kind"`
	Confidence     float64   `json:"confidence" yaml:"confidence"`
}

// YearFilter restricts results to a publication year or an inclusive year
// range. A single-year filter has From == To. Years are 4-digit strings and
// compare lexicographically.
type YearFilter struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Contains reports whether year falls inside the filter. An article without
// a parsable year never matches.
func (f YearFilter) Contains(year string) bool {
	if len(year) != 4 {
		return false
	}
	return year >= f.From && year <= f.To
}

// QueryPlan is the structured interpretation of a free-text query, produced
// by the classifier before any retrieval executes. Plans are constructed
// fresh per query and never mutated afterwards.
type QueryPlan struct {
	// Raw is the query as the caller typed it.
	Raw string `json:"raw" yaml:"raw"`

	// Type is the classified search type.
	Type SearchType `json:"type" yaml:"type"`

	// CandidateAuthors are the raw name strings the extractor pulled out of
	// the query, in extraction order, whether or not they resolved.
	CandidateAuthors []string `json:"candidate_authors,omitempty" yaml:"candidate_authors,omitempty"`

	// Resolved lists the candidates that matched known authors.
	Resolved []AuthorMatch `json:"resolved,omitempty" yaml:"resolved,omitempty"`

	// Years is the optional year or year-range constraint.
	Years *YearFilter `json:"years,omitempty" yaml:"years,omitempty"`

	// Keywords is the residual query text after removing cues, matched
	// names, and year tokens, whitespace-normalized.
	Keywords string `json:"keywords" yaml:"keywords"`

	// Confidence is the classifier's confidence in the plan, in [0,1].
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// ScoredResult is one ranked article with its relevance in [0,100] and the
// author-match evidence that contributed to it.
type ScoredResult struct {
	Article Article `json:"article" yaml:"article"`

	// Relevance combines vector similarity and author boosting; 100 means
	// direct author-index membership.
	Relevance float64 `json:"relevance" yaml:"relevance"`

	// MatchedAuthors lists display names of resolved authors present on the
	// article, empty for purely topical hits.
	MatchedAuthors []string `json:"matched_authors,omitempty" yaml:"matched_authors,omitempty"`

	// Kind is the strongest match kind behind MatchedAuthors.
	Kind MatchKind `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// Suggestion is a "did you mean" author proposed when an author-targeted
// query finds nothing.
type Suggestion struct {
	DisplayName  string  `json:"display_name" yaml:"display_name"`
	Similarity   float64 `json:"similarity" yaml:"similarity"`
	ArticleCount int     `json:"article_count" yaml:"article_count"`
}

// AuthorStats summarizes one known author's presence in the corpus.
type AuthorStats struct {
	NormalizedName string   `json:"normalized_name" yaml:"normalized_name"`
	DisplayNames   []string `json:"display_names" yaml:"display_names"`
	ArticleCount   int      `json:"article_count" yaml:"article_count"`
	FirstYear      string   `json:"first_year,omitempty" yaml:"first_year,omitempty"`
	LastYear       string   `json:"last_year,omitempty" yaml:"last_year,omitempty"`
}

// CorpusStats summarizes the corpus itself.
type CorpusStats struct {
	TotalArticles int `json:"total_articles" yaml:"total_articles"`
	UniqueAuthors int `json:"unique_authors" yaml:"unique_authors"`
}
