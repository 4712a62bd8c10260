// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query turns free-text questions into structured QueryPlans by
// chaining entity extraction and author resolution.
// Implements: prd102-query-understanding (classification).
package query

import (
	"strings"

	"github.com/pdiddy/corpus-engine/internal/authors"
	"github.com/pdiddy/corpus-engine/internal/extract"
	"github.com/pdiddy/corpus-engine/pkg/types"
)

// Confidence assigned per detection path. Cue-based author mentions are
// explicit user intent; implicit index hits are weaker evidence.
const (
	cueConfidence      = 0.9
	implicitConfidence = 0.7
)

// maxAuthorResidual is the largest keyword tail, in tokens, for which a
// cue-based author query is still treated as pure author intent rather
// than mixed.
const maxAuthorResidual = 2

// Classifier produces a QueryPlan from raw query text. It never fails:
// queries with no recognizable signal classify as general or empty.
type Classifier struct {
	extractor      *extract.Extractor
	index          *authors.Index
	matchThreshold float64
}

// NewClassifier wires a Classifier over a built author index. The index
// doubles as the extractor's implicit-mention probe. matchThreshold is the
// fuzzy-match acceptance bound passed through to author resolution.
func NewClassifier(index *authors.Index, matchThreshold float64) *Classifier {
	return &Classifier{
		extractor:      extract.New(index),
		index:          index,
		matchThreshold: matchThreshold,
	}
}

// Classify interprets query into a QueryPlan. Decision order:
//  1. a cue-based candidate resolved against the index: author intent when
//     at most two keyword tokens remain, otherwise mixed; confidence 0.9
//  2. an implicit (cue-less) candidate resolved: mixed, confidence 0.7
//  3. nothing left after stripping at most a year filter: empty
//  4. otherwise: general, confidence 0; unresolved candidates are kept on
//     the plan so downstream layers can offer spelling suggestions
func (c *Classifier) Classify(query string) types.QueryPlan {
	ents := c.extractor.Extract(query)

	plan := types.QueryPlan{
		Raw:              query,
		CandidateAuthors: ents.Candidates,
		Years:            ents.Years,
		Keywords:         ents.Residual,
	}

	resolved := c.index.Match(ents.Candidates, c.matchThreshold)

	switch {
	case len(resolved) > 0 && ents.CueBased:
		plan.Resolved = resolved
		plan.Confidence = cueConfidence
		if len(strings.Fields(ents.Residual)) <= maxAuthorResidual {
			plan.Type = types.SearchAuthor
		} else {
			plan.Type = types.SearchMixed
		}

	case len(resolved) > 0:
		plan.Resolved = resolved
		plan.Confidence = implicitConfidence
		plan.Type = types.SearchMixed

	case len(ents.Candidates) == 0 && strings.TrimSpace(ents.Residual) == "":
		plan.Type = types.SearchEmpty

	default:
		plan.Type = types.SearchGeneral
	}

	return plan
}
