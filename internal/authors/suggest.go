// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package authors

import (
	"sort"
	"strings"

	"github.com/pdiddy/corpus-engine/internal/textnorm"
	"github.com/pdiddy/corpus-engine/pkg/types"
)

// Suggest proposes similar known authors for query names that resolved to
// nothing. Every display name in the corpus is compared against each query
// name: surname equality scores 1.0, otherwise the fuzzy similarity must
// clear threshold — deliberately lower than matching proper, so "did you
// mean" surfaces near-misses. Suggestions are advisory; they never alter a
// result list. Output is sorted by similarity descending, then by name for
// determinism, and annotated with article counts.
func (x *Index) Suggest(queryNames []string, threshold float64) []types.Suggestion {
	best := make(map[string]float64) // display name → best similarity

	for _, qn := range queryNames {
		q := textnorm.Normalize(qn)
		if q == "" {
			continue
		}
		qt := strings.Fields(q)
		qSurname := ""
		if len(qt) > 0 {
			qSurname = qt[len(qt)-1]
		}

		for _, display := range x.displayNames {
			d := textnorm.Normalize(display)

			sim := 0.0
			dt := strings.Fields(d)
			if qSurname != "" && len(dt) > 0 && dt[len(dt)-1] == qSurname {
				sim = 1.0
			} else if r := Similarity(q, d); r >= threshold {
				sim = r
			}

			if sim > best[display] {
				best[display] = sim
			}
		}
	}

	suggestions := make([]types.Suggestion, 0, len(best))
	for display, sim := range best {
		if sim == 0 {
			continue
		}
		suggestions = append(suggestions, types.Suggestion{
			DisplayName:  display,
			Similarity:   sim,
			ArticleCount: x.ArticleCount(textnorm.Normalize(display)),
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Similarity != suggestions[j].Similarity {
			return suggestions[i].Similarity > suggestions[j].Similarity
		}
		return suggestions[i].DisplayName < suggestions[j].DisplayName
	})

	return suggestions
}

// Stats summarizes one author's presence in the corpus, resolving the name
// through the normal matching rules first so display-name variants and small
// typos still find the right identity. The bool result reports whether any
// identity was found. Year bounds require the caller's article lookup, so
// they are filled by the engine layer; Stats covers identity and counts.
func (x *Index) Stats(name string, fuzzyThreshold float64) (types.AuthorStats, bool) {
	matches := x.Match([]string{name}, fuzzyThreshold)
	if len(matches) == 0 {
		return types.AuthorStats{}, false
	}
	m := matches[0]
	return types.AuthorStats{
		NormalizedName: m.NormalizedName,
		DisplayNames:   m.DisplayNames,
		ArticleCount:   x.ArticleCount(m.NormalizedName),
	}, true
}
