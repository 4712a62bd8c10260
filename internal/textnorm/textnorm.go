// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textnorm canonicalizes free text for lookup keys and comparisons.
// Implements: prd102-query-understanding (normalization contract).
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize returns text after Unicode canonical decomposition, combining
// mark (diacritic) removal, case folding, and whitespace collapse. Empty
// input yields the empty string. The function is pure and total.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	decomposed := norm.NFD.String(text)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeWords splits text on whitespace and normalizes each word
// independently, preserving word boundaries for token-level matching.
func NormalizeWords(text string) []string {
	fields := strings.Fields(text)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if n := Normalize(f); n != "" {
			words = append(words, n)
		}
	}
	return words
}
