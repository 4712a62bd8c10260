// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/corpus-engine/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.CorpusConfig{
		DBPath: filepath.Join(t.TempDir(), "articles.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func longAbstract() string {
	return strings.Repeat("stochastic gradient descent ", 4)
}

func sampleArticles() []types.Article {
	return []types.Article{
		{
			ID: "2301.0001", Title: "Deep Learning Revisited", Abstract: longAbstract(),
			Published: "2015-05-27", Categories: []string{"cs.LG"},
			Authors: []types.AuthorMention{
				{Name: "Yann LeCun"}, {Name: "Yoshua Bengio"},
			},
		},
		{
			ID: "2301.0002", Title: "Adversarial Training", Abstract: longAbstract(),
			Published: "2014-06-10",
			Authors: []types.AuthorMention{
				{Name: "Ian Goodfellow"}, {Name: "Yoshua Bengio"},
			},
		},
	}
}

func TestUpsertAndLoad(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	summary, err := s.Upsert(ctx, sampleArticles(), io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 0, summary.Skipped)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Author order must survive the round trip.
	require.Len(t, got[0].Authors, 2)
	assert.Equal(t, "Yann LeCun", got[0].Authors[0].Name)
	assert.Equal(t, "Yoshua Bengio", got[0].Authors[1].Name)
	assert.Equal(t, []string{"cs.LG"}, got[0].Categories)
}

func TestUpsertSkipsShortAbstracts(t *testing.T) {
	s := testStore(t)

	summary, err := s.Upsert(context.Background(), []types.Article{
		{ID: "x1", Title: "Stub", Abstract: "too short"},
	}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Inserted)

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUpsertIsIdempotent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.Upsert(ctx, sampleArticles(), io.Discard)
	require.NoError(t, err)

	// Second pass with a changed title: updates, never duplicates.
	changed := sampleArticles()
	changed[0].Title = "Deep Learning Revisited v2"
	summary, err := s.Upsert(ctx, changed, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Updated)
	assert.Equal(t, 0, summary.Inserted)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Deep Learning Revisited v2", got[0].Title)
	require.Len(t, got[0].Authors, 2)
}

func TestStats(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.Upsert(ctx, sampleArticles(), io.Discard)
	require.NoError(t, err)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalArticles)
	// Bengio appears on both articles but is one author.
	assert.Equal(t, 3, stats.UniqueAuthors)
}

func TestRecentArticles(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	fresh := types.Article{
		ID: "r1", Title: "Fresh", Abstract: longAbstract(),
		Published: time.Now().UTC().Format("2006-01-02"),
		Authors:   []types.AuthorMention{{Name: "Ada Lovelace"}},
	}
	stale := types.Article{
		ID: "r2", Title: "Stale", Abstract: longAbstract(),
		Published: "1999-01-01",
	}
	_, err := s.Upsert(ctx, []types.Article{fresh, stale}, io.Discard)
	require.NoError(t, err)

	got, err := s.RecentArticles(ctx, 30)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].ID)
}
