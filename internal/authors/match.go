// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package authors

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/pdiddy/corpus-engine/internal/textnorm"
	"github.com/pdiddy/corpus-engine/pkg/types"
)

// Match confidences for the non-fuzzy rules. These are policy constants in
// the same sense the thresholds are: ordered by trust, not derived.
const (
	substringConfidence = 0.85
	surnameConfidence   = 0.75
)

// Match resolves candidate name strings against the index. Each candidate is
// tried through the rules in descending trust order — exact, symmetric
// substring, surname, fuzzy — and all matches the winning rule produces are
// kept. fuzzyThreshold is the minimum normalized edit similarity for the
// fuzzy rule. Matches are de-duplicated by normalized identity, keeping the
// highest-confidence occurrence. A candidate that resolves nothing simply
// contributes nothing; Match never fails.
func (x *Index) Match(candidates []string, fuzzyThreshold float64) []types.AuthorMatch {
	var matches []types.AuthorMatch
	seen := make(map[string]int) // normalized key → index into matches

	emit := func(key string, kind types.MatchKind, confidence float64) {
		if i, ok := seen[key]; ok {
			if confidence > matches[i].Confidence ||
				(confidence == matches[i].Confidence && kind.Trust() > matches[i].Kind.Trust()) {
				matches[i].Kind = kind
				matches[i].Confidence = confidence
			}
			return
		}
		seen[key] = len(matches)
		matches = append(matches, types.AuthorMatch{
			NormalizedName: key,
			DisplayNames:   x.DisplayNamesOf(key),
			Kind:           kind,
			Confidence:     confidence,
		})
	}

	for _, candidate := range candidates {
		c := textnorm.Normalize(candidate)
		if c == "" {
			continue
		}

		if x.HasName(c) {
			emit(c, types.MatchExact, 1.0)
			continue
		}

		if keys := x.substringMatches(c); len(keys) > 0 {
			for _, k := range keys {
				emit(k, types.MatchSubstring, substringConfidence)
			}
			continue
		}

		if keys := x.surnameMatches(c); len(keys) > 0 {
			for _, k := range keys {
				emit(k, types.MatchSurname, surnameConfidence)
			}
			continue
		}

		if key, ratio := x.bestFuzzy(c); ratio >= fuzzyThreshold {
			emit(key, types.MatchFuzzy, ratio)
		}
	}

	return matches
}

// substringMatches returns every known key where the candidate contains the
// key or the key contains the candidate. The rule is symmetric: a partial
// query name finds the full known name and a fuller query name finds its
// known prefix.
func (x *Index) substringMatches(c string) []string {
	var keys []string
	for _, k := range x.keys {
		if strings.Contains(k, c) || strings.Contains(c, k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// surnameMatches returns known keys sharing the candidate's last token.
// Both sides must carry at least two tokens so a bare surname does not match
// itself trivially through this rule.
func (x *Index) surnameMatches(c string) []string {
	ct := strings.Fields(c)
	if len(ct) < 2 {
		return nil
	}
	surname := ct[len(ct)-1]

	var keys []string
	for _, k := range x.keys {
		kt := strings.Fields(k)
		if len(kt) < 2 {
			continue
		}
		if kt[len(kt)-1] == surname {
			keys = append(keys, k)
		}
	}
	return keys
}

// bestFuzzy returns the known key with the highest normalized edit
// similarity to the candidate, and that similarity. Ties keep the
// lexicographically first key, which makes matching deterministic.
func (x *Index) bestFuzzy(c string) (string, float64) {
	var bestKey string
	var bestRatio float64
	for _, k := range x.keys {
		if r := Similarity(c, k); r > bestRatio {
			bestKey, bestRatio = k, r
		}
	}
	return bestKey, bestRatio
}

// Similarity is the normalized edit similarity between two strings in [0,1]:
// 1 minus the Levenshtein distance divided by the longer length. Equal
// strings score 1; strings sharing nothing score near 0.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}
