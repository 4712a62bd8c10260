// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank turns a QueryPlan into a scored, ordered result list by
// fusing direct author membership with vector-similarity retrieval.
// Implements: prd103-ranking (R1-R6).
package rank

import (
	"context"
	"fmt"
	"sort"

	"github.com/pdiddy/corpus-engine/internal/authors"
	"github.com/pdiddy/corpus-engine/internal/textnorm"
	"github.com/pdiddy/corpus-engine/pkg/types"
)

// Candidate is one hit from the vector retrieval adapter. Distance is
// non-negative, smaller meaning more similar.
type Candidate struct {
	ID       string
	Distance float64
}

// Retriever is the vector retrieval adapter consumed by the engine. For a
// fixed index snapshot and embedding model it must be deterministic.
type Retriever interface {
	Search(ctx context.Context, text string, k int) ([]Candidate, error)
}

// Engine ranks query plans over an immutable corpus snapshot. The author
// index and article map are read-only after construction, so one Engine may
// serve concurrent queries.
type Engine struct {
	index     *authors.Index
	articles  map[string]types.Article
	retriever Retriever
	cfg       types.EngineConfig
}

// New builds an Engine over the corpus snapshot the index was built from.
func New(index *authors.Index, corpus []types.Article, retriever Retriever, cfg types.EngineConfig) *Engine {
	articles := make(map[string]types.Article, len(corpus))
	for _, a := range corpus {
		articles[a.ID] = a
	}
	return &Engine{
		index:     index,
		articles:  articles,
		retriever: retriever,
		cfg:       cfg.WithDefaults(),
	}
}

// Rank produces at most topK scored results for plan. Author-intent plans
// with high confidence never touch the retriever: direct index membership
// is ground truth. Everything else goes through the vector pool, gets year
// filtering, author boosting on the mixed path, and a deterministic merge.
// An empty plan yields an empty list, not an error.
func (e *Engine) Rank(ctx context.Context, plan types.QueryPlan, topK int) ([]types.ScoredResult, error) {
	if topK <= 0 {
		topK = e.cfg.TopK
	}
	if plan.Type == types.SearchEmpty {
		return nil, nil
	}
	if plan.Type == types.SearchAuthor && plan.Confidence >= e.cfg.DirectConfidence {
		return e.AuthorOnly(plan, topK), nil
	}

	text := plan.Keywords
	if text == "" {
		text = plan.Raw
	}
	pool := topK * e.cfg.PoolMultiplier
	hits, err := e.retriever.Search(ctx, text, pool)
	if err != nil {
		return nil, fmt.Errorf("vector retrieval: %w", err)
	}

	var matched, other []types.ScoredResult
	for _, hit := range hits {
		art, ok := e.articles[hit.ID]
		if !ok {
			continue
		}
		if plan.Years != nil && !plan.Years.Contains(art.Year()) {
			continue
		}

		res := types.ScoredResult{
			Article:   art,
			Relevance: relevance(hit.Distance),
		}
		res.MatchedAuthors, res.Kind = e.matchedAuthors(art, plan.Resolved)

		if len(res.MatchedAuthors) > 0 {
			res.Relevance = boost(res.Relevance, e.cfg.BoostFactor)
			matched = append(matched, res)
		} else {
			other = append(other, res)
		}
	}

	sortResults(matched)
	sortResults(other)

	out := matched
	if len(out) > topK {
		out = out[:topK]
	}
	for _, res := range other {
		if len(out) >= topK {
			break
		}
		out = append(out, res)
	}
	return out, nil
}

// AuthorOnly returns the union of the resolved authors' articles with
// maximal relevance, date descending. It backs the direct author path and
// the degraded mode when the retrieval adapter is unavailable.
func (e *Engine) AuthorOnly(plan types.QueryPlan, topK int) []types.ScoredResult {
	if topK <= 0 {
		topK = e.cfg.TopK
	}

	seen := make(map[string]struct{})
	var out []types.ScoredResult
	for _, m := range plan.Resolved {
		for _, id := range e.index.ArticlesOf(m.NormalizedName) {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}

			art, ok := e.articles[id]
			if !ok {
				continue
			}
			if plan.Years != nil && !plan.Years.Contains(art.Year()) {
				continue
			}

			res := types.ScoredResult{Article: art, Relevance: 100}
			res.MatchedAuthors, res.Kind = e.matchedAuthors(art, plan.Resolved)
			out = append(out, res)
		}
	}

	sortResults(out)
	if len(out) > topK {
		out = out[:topK]
	}
	return out
}

// relevance converts an adapter distance to a [0,100] score.
func relevance(distance float64) float64 {
	r := (1 - distance) * 100
	if r < 0 {
		return 0
	}
	return r
}

// boost scales an author-matched relevance, capped at 100.
func boost(r, factor float64) float64 {
	r *= factor
	if r > 100 {
		return 100
	}
	return r
}

// matchedAuthors returns the article's display names whose normalized form
// appears in resolved, plus the most trusted match kind behind them.
func (e *Engine) matchedAuthors(art types.Article, resolved []types.AuthorMatch) ([]string, types.MatchKind) {
	if len(resolved) == 0 {
		return nil, types.MatchNone
	}
	byKey := make(map[string]types.AuthorMatch, len(resolved))
	for _, m := range resolved {
		byKey[m.NormalizedName] = m
	}

	var names []string
	best := types.MatchNone
	for _, mention := range art.Authors {
		m, ok := byKey[textnorm.Normalize(mention.Name)]
		if !ok {
			continue
		}
		names = append(names, mention.Name)
		if m.Kind.Trust() > best.Trust() {
			best = m.Kind
		}
	}
	return names, best
}

// sortResults orders by relevance descending, then publication date
// descending, then match-kind trust. The sort is stable so equal entries
// keep their retrieval order.
func sortResults(results []types.ScoredResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Relevance != b.Relevance {
			return a.Relevance > b.Relevance
		}
		if a.Article.Published != b.Article.Published {
			return a.Article.Published > b.Article.Published
		}
		return a.Kind.Trust() > b.Kind.Trust()
	})
}
