// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls structured entities — year filters and candidate
// author names — out of free-text queries, leaving the topical residue
// behind as keywords.
// Implements: prd102-query-understanding (entity extraction).
package extract

import (
	"strings"
	"unicode"

	"github.com/pdiddy/corpus-engine/internal/textnorm"
	"github.com/pdiddy/corpus-engine/pkg/types"
)

// NameProber reports whether a normalized string is a known author name.
// The author index satisfies it; extraction stays decoupled from how the
// index is built.
type NameProber interface {
	HasName(normalized string) bool
}

// Entities is the extractor's output. Absent signals are zero values, never
// errors: extraction is total over any text input.
type Entities struct {
	// Years is the detected year or year-range constraint, nil when absent.
	Years *types.YearFilter

	// Candidates are raw author-name spans in extraction order.
	Candidates []string

	// CueBased reports whether the candidates came from an explicit lexical
	// cue ("by", "travaux de", ...) rather than the implicit index probe.
	// Cue-based detection carries higher a-priori confidence downstream.
	CueBased bool

	// Residual is the query text with cues, matched names, and year tokens
	// removed, whitespace-normalized.
	Residual string
}

// authorCues are the lexical signals that the following words name an
// author. Multi-word cues are matched before their single-word suffixes, so
// "travaux de" wins over a later bare "de" reading. The list mixes English
// and French because the corpus tooling is used from both; matching runs on
// normalized tokens, so accents are irrelevant.
var authorCues = [][]string{
	{"travaux", "de"},
	{"articles", "de"},
	{"publications", "de"},
	{"ecrit", "par"},
	{"publie", "par"},
	{"works", "by"},
	{"papers", "by"},
	{"papers", "from"},
	{"articles", "by"},
	{"written", "by"},
	{"authored", "by"},
	{"by"},
	{"par"},
	{"author"},
	{"auteur"},
}

// stopwords filters candidate spans that carry no author signal.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "he": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "that": {}, "the": {}, "to": {},
	"was": {}, "will": {}, "with": {}, "we": {}, "can": {}, "have": {},
	"this": {}, "they": {}, "not": {}, "or": {}, "but": {}, "been": {},
	"which": {}, "their": {}, "there": {}, "these": {}, "more": {},
	"than": {}, "such": {}, "also": {}, "other": {}, "one": {}, "two": {},
	"our": {}, "all": {}, "any": {}, "each": {}, "what": {}, "who": {},
	"how": {}, "why": {}, "when": {}, "where": {}, "about": {},
	"de": {}, "la": {}, "le": {}, "les": {}, "des": {}, "du": {}, "et": {},
}

// maxNameTokens bounds how many tokens a single candidate name may span.
const maxNameTokens = 4

// Extractor detects entities in queries. A nil prober disables implicit
// author detection; cue-based detection still works.
type Extractor struct {
	prober NameProber
}

// New returns an Extractor probing implicit author mentions against prober.
func New(prober NameProber) *Extractor {
	return &Extractor{prober: prober}
}

// Extract scans the query for year filters and author-name candidates.
// Years are detected first and removed; then cue-based name patterns run,
// and only if no cue is present does the implicit sliding-window probe run.
// Extract never fails; a query with no signal yields zero-value Entities.
func (e *Extractor) Extract(query string) Entities {
	tokens := strings.Fields(query)
	consumed := make([]bool, len(tokens))

	var out Entities
	out.Years = detectYears(tokens, consumed)

	out.Candidates, out.CueBased = e.detectByCue(tokens, consumed)
	if len(out.Candidates) == 0 && e.prober != nil {
		if implicit := e.detectImplicit(tokens, consumed); len(implicit) > 0 {
			out.Candidates = implicit
			out.CueBased = false
		}
	}

	var rest []string
	for i, tok := range tokens {
		if !consumed[i] {
			rest = append(rest, tok)
		}
	}
	out.Residual = strings.Join(rest, " ")

	return out
}

// detectYears finds "19xx"/"20xx" tokens and "YYYY-YYYY" range tokens,
// marking them consumed. A reversed range is normalized so From <= To. Only
// the first year signal wins; later ones stay in the residual as ordinary
// text.
func detectYears(tokens []string, consumed []bool) *types.YearFilter {
	for i, tok := range tokens {
		t := strings.Trim(tok, ".,;:!?()")

		if isYearToken(t) {
			// A lone year may open a range across tokens: "2018 - 2020".
			if i+2 < len(tokens) && tokens[i+1] == "-" {
				second := strings.Trim(tokens[i+2], ".,;:!?()")
				if isYearToken(second) {
					consumed[i], consumed[i+1], consumed[i+2] = true, true, true
					return orderedRange(t, second)
				}
			}
			consumed[i] = true
			return &types.YearFilter{From: t, To: t}
		}

		if from, to, ok := splitYearRange(t); ok {
			consumed[i] = true
			return orderedRange(from, to)
		}
	}
	return nil
}

func orderedRange(from, to string) *types.YearFilter {
	if from > to {
		from, to = to, from
	}
	return &types.YearFilter{From: from, To: to}
}

// isYearToken matches the "19xx or 20xx" shape exactly.
func isYearToken(t string) bool {
	if len(t) != 4 {
		return false
	}
	if !strings.HasPrefix(t, "19") && !strings.HasPrefix(t, "20") {
		return false
	}
	for _, c := range t {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// splitYearRange matches "YYYY-YYYY" as a single token.
func splitYearRange(t string) (string, string, bool) {
	if len(t) != 9 || t[4] != '-' {
		return "", "", false
	}
	from, to := t[:4], t[5:]
	if isYearToken(from) && isYearToken(to) {
		return from, to, true
	}
	return "", "", false
}

// detectByCue scans for author cues and, after each, collects a run of
// name-like tokens as one candidate. Cue words and name tokens are marked
// consumed so they leave the residual.
func (e *Extractor) detectByCue(tokens []string, consumed []bool) ([]string, bool) {
	normTokens := make([]string, len(tokens))
	for i, tok := range tokens {
		normTokens[i] = textnorm.Normalize(strings.Trim(tok, ".,;:!?()"))
	}

	var candidates []string
	cueFound := false

	for i := 0; i < len(tokens); i++ {
		if consumed[i] {
			continue
		}
		cueLen := matchCueAt(normTokens, consumed, i)
		if cueLen == 0 {
			continue
		}
		cueFound = true
		for j := i; j < i+cueLen; j++ {
			consumed[j] = true
		}

		if name := collectName(tokens, consumed, i+cueLen); name != "" {
			candidates = append(candidates, name)
		}
		i += cueLen - 1
	}

	return filterCandidates(candidates), cueFound
}

// matchCueAt returns the cue length in tokens if one starts at position i,
// or zero.
func matchCueAt(normTokens []string, consumed []bool, i int) int {
	for _, cue := range authorCues {
		if i+len(cue) > len(normTokens) {
			continue
		}
		ok := true
		for j, w := range cue {
			if consumed[i+j] || normTokens[i+j] != w {
				ok = false
				break
			}
		}
		if ok {
			return len(cue)
		}
	}
	return 0
}

// collectName gathers consecutive name-like tokens starting at position
// start into one candidate string, consuming them. An "et al." tail is
// consumed but not kept as part of the name.
func collectName(tokens []string, consumed []bool, start int) string {
	var parts []string
	i := start
	for i < len(tokens) && len(parts) < maxNameTokens {
		if consumed[i] {
			break
		}
		tok := strings.Trim(tokens[i], ",;:!?()")

		// "Surname et al." — swallow the tail, keep the name so far.
		if len(parts) > 0 && strings.EqualFold(tok, "et") &&
			i+1 < len(tokens) && strings.EqualFold(strings.Trim(tokens[i+1], ".,;:!?()"), "al") {
			consumed[i], consumed[i+1] = true, true
			break
		}

		if !isNameToken(tok) {
			break
		}
		consumed[i] = true
		parts = append(parts, strings.TrimRight(tok, "."))
		i++
	}
	return strings.Join(parts, " ")
}

// isNameToken accepts capitalized words ("Yann", "LeCun", "Jean-Marie") and
// initial forms ("Y.", "J.-M."). Anything starting lowercase or non-letter
// ends the name span.
func isNameToken(tok string) bool {
	if tok == "" {
		return false
	}
	runes := []rune(tok)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !unicode.IsLetter(r) && r != '.' && r != '-' && r != '\'' {
			return false
		}
	}
	return true
}

// detectImplicit probes sliding windows of 1-3 unconsumed tokens against
// the known-name index. Longer windows are tried first so "Yann LeCun"
// beats a narrower "LeCun" hit; matched spans are consumed so they leave
// the residual keywords.
func (e *Extractor) detectImplicit(tokens []string, consumed []bool) []string {
	var candidates []string

	for width := 3; width >= 1; width-- {
		for i := 0; i+width <= len(tokens); i++ {
			if anyConsumed(consumed, i, width) {
				continue
			}
			span := strings.Trim(strings.Join(tokens[i:i+width], " "), ".,;:!?()")
			if !e.prober.HasName(textnorm.Normalize(span)) {
				continue
			}
			for j := i; j < i+width; j++ {
				consumed[j] = true
			}
			candidates = append(candidates, span)
		}
	}

	return filterCandidates(candidates)
}

func anyConsumed(consumed []bool, i, width int) bool {
	for j := i; j < i+width; j++ {
		if consumed[j] {
			return true
		}
	}
	return false
}

// filterCandidates discards spans that are pure stopwords, non-alphabetic,
// or shorter than two meaningful characters.
func filterCandidates(candidates []string) []string {
	var kept []string
	for _, c := range candidates {
		norm := textnorm.Normalize(c)
		if len([]rune(strings.ReplaceAll(norm, " ", ""))) < 2 {
			continue
		}
		hasLetter := false
		allStop := true
		for _, w := range strings.Fields(norm) {
			if _, ok := stopwords[w]; !ok {
				allStop = false
			}
			for _, r := range w {
				if unicode.IsLetter(r) {
					hasLetter = true
				}
			}
		}
		if !hasLetter || allStop {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
