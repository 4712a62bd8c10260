// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine is the retrieval facade: it classifies queries, ranks
// results through the vector adapter, and falls back to author-only
// results or spelling suggestions when retrieval comes up empty.
// Implements: prd102-query-understanding, prd103-ranking (facade).
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/pdiddy/corpus-engine/internal/authors"
	"github.com/pdiddy/corpus-engine/internal/query"
	"github.com/pdiddy/corpus-engine/internal/rank"
	"github.com/pdiddy/corpus-engine/pkg/types"
)

// ErrEmptyCorpus is returned by New when there are no articles to serve.
var ErrEmptyCorpus = errors.New("corpus is empty")

// ErrAdapterTimeout marks a vector retrieval call that exceeded its bound.
var ErrAdapterTimeout = errors.New("vector retrieval adapter timed out")

// Status tags the outcome of a search for the caller.
type Status string

const (
	// StatusOK means the query produced results.
	StatusOK Status = "ok"

	// StatusInvalidQuery means the query carried no searchable signal.
	StatusInvalidQuery Status = "invalid_query"

	// StatusNoResults means the query was understood but nothing matched.
	StatusNoResults Status = "no_results"

	// StatusAdapterUnavailable means vector retrieval failed and no
	// author-only fallback existed.
	StatusAdapterUnavailable Status = "adapter_unavailable"
)

// Outcome is the full answer to one search: the interpreted plan, the
// ranked results, and advisory suggestions when nothing matched.
type Outcome struct {
	Status      Status               `json:"status" yaml:"status"`
	Plan        types.QueryPlan      `json:"plan" yaml:"plan"`
	Results     []types.ScoredResult `json:"results,omitempty" yaml:"results,omitempty"`
	Suggestions []types.Suggestion   `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`

	// Degraded reports that the adapter failed and Results came from the
	// author index alone.
	Degraded bool `json:"degraded,omitempty" yaml:"degraded,omitempty"`
}

// Engine serves queries over an immutable corpus snapshot. Safe for
// concurrent use once built; reloading the corpus means building a new
// Engine and swapping the reference.
type Engine struct {
	index      *authors.Index
	classifier *query.Classifier
	ranker     *rank.Engine
	articles   map[string]types.Article
	cfg        types.EngineConfig
}

// New builds the author index from corpus and wires the query chain.
func New(corpus []types.Article, retriever rank.Retriever, cfg types.EngineConfig) (*Engine, error) {
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}
	cfg = cfg.WithDefaults()

	index := authors.Build(corpus)
	articles := make(map[string]types.Article, len(corpus))
	for _, a := range corpus {
		articles[a.ID] = a
	}

	return &Engine{
		index:      index,
		classifier: query.NewClassifier(index, cfg.MatchThreshold),
		ranker:     rank.New(index, corpus, retriever, cfg),
		articles:   articles,
		cfg:        cfg,
	}, nil
}

// Search interprets raw and returns a ranked outcome. It never returns an
// error: adapter failures degrade to author-only results when any author
// resolved, and queries with no signal come back as invalid_query. topK
// <= 0 uses the configured default.
func (e *Engine) Search(ctx context.Context, raw string, topK int) Outcome {
	plan := e.classifier.Classify(raw)
	out := Outcome{Plan: plan}

	if plan.Type == types.SearchEmpty {
		out.Status = StatusInvalidQuery
		return out
	}

	rankCtx, cancel := context.WithTimeout(ctx, e.cfg.AdapterTimeout)
	defer cancel()

	results, err := e.ranker.Rank(rankCtx, plan, topK)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", ErrAdapterTimeout, err)
		}
		if len(plan.Resolved) > 0 {
			results = e.ranker.AuthorOnly(plan, topK)
			out.Degraded = true
		}
		if len(results) == 0 {
			out.Status = StatusAdapterUnavailable
			return out
		}
	}

	out.Results = results
	if len(results) == 0 {
		out.Status = StatusNoResults
		if len(plan.CandidateAuthors) > 0 {
			out.Suggestions = e.index.Suggest(plan.CandidateAuthors, e.cfg.SuggestThreshold)
		}
		return out
	}

	out.Status = StatusOK
	return out
}

// ArticlesByAuthor resolves name against the index and returns the
// author's articles, newest first, truncated to limit when limit > 0.
func (e *Engine) ArticlesByAuthor(name string, limit int) []types.Article {
	matches := e.index.Match([]string{name}, e.cfg.MatchThreshold)

	seen := make(map[string]struct{})
	var out []types.Article
	for _, m := range matches {
		for _, id := range e.index.ArticlesOf(m.NormalizedName) {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if a, ok := e.articles[id]; ok {
				out = append(out, a)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Published != out[j].Published {
			return out[i].Published > out[j].Published
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// AuthorStats resolves name and returns the author's article count and
// publication-year bounds. ok is false when nothing resolved.
func (e *Engine) AuthorStats(name string) (types.AuthorStats, bool) {
	stats, ok := e.index.Stats(name, e.cfg.MatchThreshold)
	if !ok {
		return types.AuthorStats{}, false
	}

	for _, id := range e.index.ArticlesOf(stats.NormalizedName) {
		a, found := e.articles[id]
		if !found {
			continue
		}
		year := a.Year()
		if year == "" {
			continue
		}
		if stats.FirstYear == "" || year < stats.FirstYear {
			stats.FirstYear = year
		}
		if stats.LastYear == "" || year > stats.LastYear {
			stats.LastYear = year
		}
	}
	return stats, true
}

// SuggestAuthors returns "did you mean" candidates for names.
func (e *Engine) SuggestAuthors(names []string) []types.Suggestion {
	return e.index.Suggest(names, e.cfg.SuggestThreshold)
}

// Index exposes the author index for callers that need raw lookups.
func (e *Engine) Index() *authors.Index {
	return e.index
}
