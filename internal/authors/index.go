// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package authors maintains the corpus author index and resolves author
// mentions against it with exact, substring, surname, and fuzzy matching.
// Implements: prd102-query-understanding (author resolution);
//
//	prd105-suggestions.
//
// docs/ARCHITECTURE § Author Index.
package authors

import (
	"runtime"
	"sort"
	"sync"

	"github.com/pdiddy/corpus-engine/internal/textnorm"
	"github.com/pdiddy/corpus-engine/pkg/types"
)

// entry accumulates everything known about one normalized author identity.
type entry struct {
	displayNames map[string]struct{}
	articleIDs   map[string]struct{}
}

// Index maps normalized author names to article-ID sets and display-name
// variants. An Index is a pure function of the corpus snapshot it was built
// from, immutable after Build; rebuilding produces a new instance, so a
// shared Index can be swapped atomically while queries are in flight.
type Index struct {
	byName       map[string]*entry
	keys         []string // sorted normalized keys, fixed at build
	displayNames []string // sorted, all variants across all authors
}

// Build constructs the index from a corpus snapshot. The corpus is
// partitioned across workers and the partial multimaps merged; the merge is
// associative and order-independent, so the result is identical to a serial
// build.
func Build(corpus []types.Article) *Index {
	shards := runtime.NumCPU()
	if shards > len(corpus) {
		shards = len(corpus)
	}
	if shards < 1 {
		shards = 1
	}

	partials := make([]map[string]*entry, shards)
	var wg sync.WaitGroup
	chunk := (len(corpus) + shards - 1) / shards

	for i := 0; i < shards; i++ {
		lo := i * chunk
		hi := lo + chunk
		if hi > len(corpus) {
			hi = len(corpus)
		}
		wg.Add(1)
		go func(i, lo, hi int) {
			defer wg.Done()
			partials[i] = buildPartial(corpus[lo:hi])
		}(i, lo, hi)
	}
	wg.Wait()

	merged := make(map[string]*entry)
	for _, p := range partials {
		for key, src := range p {
			dst, ok := merged[key]
			if !ok {
				merged[key] = src
				continue
			}
			for n := range src.displayNames {
				dst.displayNames[n] = struct{}{}
			}
			for id := range src.articleIDs {
				dst.articleIDs[id] = struct{}{}
			}
		}
	}

	seen := make(map[string]struct{})
	var names []string
	for _, e := range merged {
		for n := range e.displayNames {
			if _, ok := seen[n]; !ok {
				seen[n] = struct{}{}
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return &Index{byName: merged, keys: keys, displayNames: names}
}

func buildPartial(articles []types.Article) map[string]*entry {
	partial := make(map[string]*entry)
	for _, a := range articles {
		for _, m := range a.Authors {
			key := textnorm.Normalize(m.Name)
			if key == "" {
				continue
			}
			e, ok := partial[key]
			if !ok {
				e = &entry{
					displayNames: make(map[string]struct{}),
					articleIDs:   make(map[string]struct{}),
				}
				partial[key] = e
			}
			e.displayNames[m.Name] = struct{}{}
			e.articleIDs[a.ID] = struct{}{}
		}
	}
	return partial
}

// Size returns the number of distinct normalized author identities.
func (x *Index) Size() int {
	return len(x.byName)
}

// HasName reports whether the normalized name is a known author key. Used by
// the extractor's implicit-mention probe.
func (x *Index) HasName(normalized string) bool {
	_, ok := x.byName[normalized]
	return ok
}

// ArticlesOf returns the sorted article IDs authored under the normalized
// name, or nil when the name is unknown.
func (x *Index) ArticlesOf(normalized string) []string {
	e, ok := x.byName[normalized]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(e.articleIDs))
	for id := range e.articleIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ArticleCount returns how many articles the normalized name authored.
func (x *Index) ArticleCount(normalized string) int {
	e, ok := x.byName[normalized]
	if !ok {
		return 0
	}
	return len(e.articleIDs)
}

// DisplayNamesOf returns the sorted display-name variants recorded for the
// normalized name, or nil when unknown.
func (x *Index) DisplayNamesOf(normalized string) []string {
	e, ok := x.byName[normalized]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(e.displayNames))
	for n := range e.displayNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AllDisplayNames returns every display-name variant in the corpus, sorted.
func (x *Index) AllDisplayNames() []string {
	return x.displayNames
}

// Keys returns all normalized author keys in sorted order.
func (x *Index) Keys() []string {
	return x.keys
}
