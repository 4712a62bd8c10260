// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package semantic

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/corpus-engine/pkg/types"
)

// fakeEmbedder returns canned 4-dimensional vectors keyed by input text so
// tests control the geometry exactly.
type fakeEmbedder struct {
	vectors map[string][]float32
	calls   int
}

func (f *fakeEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vecs, err := f.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (f *fakeEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, ok := f.vectors[t]
		if !ok {
			vec = []float32{0, 0, 0, 1}
		}
		out[i] = vec
	}
	return out, nil
}

func testArticles() []types.Article {
	return []types.Article{
		{ID: "a1", Title: "alpha", Published: "2020-01-01"},
		{ID: "a2", Title: "beta", Published: "2021-01-01"},
		{ID: "a3", Title: "alpha-adjacent", Published: "2022-01-01"},
	}
}

func testEmbedder() *fakeEmbedder {
	return &fakeEmbedder{vectors: map[string][]float32{
		"alpha":          {1, 0, 0, 0},
		"beta":           {0, 1, 0, 0},
		"alpha-adjacent": {0.9, 0.1, 0, 0},
	}}
}

func builtIndex(t *testing.T) (*Index, *fakeEmbedder) {
	t.Helper()
	emb := testEmbedder()
	idx, err := NewIndex(emb, types.IndexConfig{Dimensions: 4})
	require.NoError(t, err)
	require.NoError(t, idx.Build(context.Background(), testArticles(), 2))
	return idx, emb
}

func TestSearchRanksByProximity(t *testing.T) {
	idx, _ := builtIndex(t)

	got, err := idx.Search(context.Background(), "alpha", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "a1", got[0].ID)
	assert.Equal(t, "a3", got[1].ID)
	assert.Equal(t, "a2", got[2].ID)
	assert.InDelta(t, 0, got[0].Distance, 1e-6)
	assert.Greater(t, got[2].Distance, got[1].Distance)
}

func TestSearchEmptyIndex(t *testing.T) {
	idx, err := NewIndex(testEmbedder(), types.IndexConfig{Dimensions: 4})
	require.NoError(t, err)

	_, err = idx.Search(context.Background(), "anything", 3)
	assert.ErrorIs(t, err, ErrIndexNotBuilt)
}

func TestQueryCacheSkipsEmbedder(t *testing.T) {
	idx, emb := builtIndex(t)

	_, err := idx.Search(context.Background(), "alpha", 1)
	require.NoError(t, err)
	callsAfterFirst := emb.calls

	_, err = idx.Search(context.Background(), "alpha", 1)
	require.NoError(t, err)
	assert.Equal(t, callsAfterFirst, emb.calls, "repeated query must hit the cache")
}

func TestRebuildReplacesVectors(t *testing.T) {
	idx, _ := builtIndex(t)
	require.Equal(t, 3, idx.Len())

	// Re-adding the same IDs must not grow the live set.
	require.NoError(t, idx.Build(context.Background(), testArticles(), 2))
	assert.Equal(t, 3, idx.Len())

	got, err := idx.Search(context.Background(), "beta", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a2", got[0].ID)
}

func TestDimensionMismatchRejected(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{"alpha": {1, 0}}}
	idx, err := NewIndex(emb, types.IndexConfig{Dimensions: 4})
	require.NoError(t, err)

	err = idx.Build(context.Background(), []types.Article{{ID: "a1", Title: "alpha"}}, 1)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	idx, _ := builtIndex(t)
	path := filepath.Join(t.TempDir(), "vectors.hnsw")
	require.NoError(t, idx.Save(path))

	loaded, err := NewIndex(testEmbedder(), types.IndexConfig{Dimensions: 4})
	require.NoError(t, err)
	require.NoError(t, loaded.Load(path))
	assert.Equal(t, 3, loaded.Len())
	assert.True(t, loaded.Contains("a1"))

	got, err := loaded.Search(context.Background(), "beta", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a2", got[0].ID)
}
