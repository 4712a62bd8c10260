// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package semantic

import (
	"bufio"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/coder/hnsw"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/corpus-engine/internal/rank"
	"github.com/pdiddy/corpus-engine/pkg/types"
)

// ErrIndexNotBuilt is returned by Search when the index holds no vectors.
var ErrIndexNotBuilt = errors.New("semantic index not built")

// embedConcurrency bounds parallel embedding requests during a build.
const embedConcurrency = 4

// Index is an HNSW vector index over article embeddings. It satisfies the
// ranking engine's Retriever contract. Reads are safe concurrently; Build
// and Load must not race with Search.
type Index struct {
	mu       sync.RWMutex
	graph    *hnsw.Graph[uint64]
	embedder Embedder
	cfg      types.IndexConfig
	logger   *slog.Logger

	idMap   map[string]uint64
	keyMap  map[uint64]string
	nextKey uint64

	// queryCache memoizes query-text embeddings; repeated queries skip the
	// embedding endpoint entirely.
	queryCache *lru.Cache[string, []float32]
}

// indexMetadata is the gob-persisted companion to the exported graph.
type indexMetadata struct {
	IDMap   map[string]uint64
	NextKey uint64
	Config  types.IndexConfig
}

// NewIndex creates an empty index backed by embedder.
func NewIndex(embedder Embedder, cfg types.IndexConfig) (*Index, error) {
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = 384
	}
	if cfg.M <= 0 {
		cfg.M = 16
	}
	if cfg.EfSearch <= 0 {
		cfg.EfSearch = 20
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 256
	}

	cache, err := lru.New[string, []float32](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create query cache: %w", err)
	}

	return &Index{
		graph:      newGraph(cfg),
		embedder:   embedder,
		cfg:        cfg,
		logger:     slog.Default().With("component", "semantic-index"),
		idMap:      make(map[string]uint64),
		keyMap:     make(map[uint64]string),
		queryCache: cache,
	}, nil
}

func newGraph(cfg types.IndexConfig) *hnsw.Graph[uint64] {
	g := hnsw.NewGraph[uint64]()
	g.Distance = hnsw.CosineDistance
	g.M = cfg.M
	g.EfSearch = cfg.EfSearch
	g.Ml = 0.25
	return g
}

// Build embeds every article's title and abstract and inserts the vectors.
// Batches are embedded concurrently; insertion order into the graph is
// whatever batch finishes first, which does not affect search results.
func (x *Index) Build(ctx context.Context, articles []types.Article, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 32
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)

	for start := 0; start < len(articles); start += batchSize {
		end := start + batchSize
		if end > len(articles) {
			end = len(articles)
		}
		batch := articles[start:end]

		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, a := range batch {
				texts[i] = documentText(a)
			}
			vecs, err := x.embedder.EmbedTexts(ctx, texts)
			if err != nil {
				return err
			}
			for i, a := range batch {
				if err := x.add(a.ID, vecs[i]); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("build semantic index: %w", err)
	}
	x.logger.Info("semantic index built", "articles", len(articles), "vectors", x.Len())
	return nil
}

// documentText is the embedded representation of an article.
func documentText(a types.Article) string {
	if a.Abstract == "" {
		return a.Title
	}
	return a.Title + "\n\n" + a.Abstract
}

// add inserts one vector, replacing any previous vector for the same ID via
// lazy deletion (the old graph node is orphaned, not removed; deleting
// nodes from a coder/hnsw graph can corrupt it).
func (x *Index) add(id string, vec []float32) error {
	if len(vec) != x.cfg.Dimensions {
		return fmt.Errorf("article %s: embedding has %d dimensions, index wants %d", id, len(vec), x.cfg.Dimensions)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if oldKey, exists := x.idMap[id]; exists {
		delete(x.keyMap, oldKey)
		delete(x.idMap, id)
	}

	key := x.nextKey
	x.nextKey++

	normalized := make([]float32, len(vec))
	copy(normalized, vec)
	normalizeInPlace(normalized)

	x.graph.Add(hnsw.MakeNode(key, normalized))
	x.idMap[id] = key
	x.keyMap[key] = id
	return nil
}

// Search embeds text and returns up to k nearest articles as retrieval
// candidates, nearest first.
func (x *Index) Search(ctx context.Context, text string, k int) ([]rank.Candidate, error) {
	if x.Len() == 0 {
		return nil, ErrIndexNotBuilt
	}

	vec, err := x.queryVector(ctx, text)
	if err != nil {
		return nil, err
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	nodes := x.graph.Search(vec, k)
	out := make([]rank.Candidate, 0, len(nodes))
	for _, node := range nodes {
		id, ok := x.keyMap[node.Key]
		if !ok {
			// Lazily deleted node still present in the graph.
			continue
		}
		out = append(out, rank.Candidate{
			ID:       id,
			Distance: float64(x.graph.Distance(vec, node.Value)),
		})
	}
	return out, nil
}

// queryVector embeds query text through the LRU cache, normalized for
// cosine distance.
func (x *Index) queryVector(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := x.queryCache.Get(text); ok {
		return vec, nil
	}

	vec, err := x.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	normalized := make([]float32, len(vec))
	copy(normalized, vec)
	normalizeInPlace(normalized)

	x.queryCache.Add(text, normalized)
	return normalized, nil
}

// Len reports the number of live vectors.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.idMap)
}

// Contains reports whether an article is indexed.
func (x *Index) Contains(id string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.idMap[id]
	return ok
}

// Save writes the graph and its ID mappings to path and path+".meta",
// each via a temp-file rename.
func (x *Index) Save(path string) error {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	if err := x.graph.Export(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("export graph: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close index file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename index file: %w", err)
	}

	if err := x.saveMetadata(path + ".meta"); err != nil {
		return err
	}
	x.logger.Info("semantic index saved", "path", path, "vectors", len(x.idMap))
	return nil
}

func (x *Index) saveMetadata(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create metadata file: %w", err)
	}

	meta := indexMetadata{IDMap: x.idMap, NextKey: x.nextKey, Config: x.cfg}
	if err := gob.NewEncoder(f).Encode(meta); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode index metadata: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close metadata file: %w", err)
	}
	return os.Rename(tmp, path)
}

// Load replaces the index contents with a previously saved graph.
func (x *Index) Load(path string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	meta, err := loadMetadata(path + ".meta")
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()

	graph := newGraph(meta.Config)
	// coder/hnsw Import needs an io.ByteReader.
	if err := graph.Import(bufio.NewReader(f)); err != nil {
		return fmt.Errorf("import graph: %w", err)
	}

	x.graph = graph
	x.cfg = meta.Config
	x.idMap = meta.IDMap
	x.nextKey = meta.NextKey
	x.keyMap = make(map[uint64]string, len(meta.IDMap))
	for id, key := range meta.IDMap {
		x.keyMap[key] = id
	}
	x.logger.Info("semantic index loaded", "path", path, "vectors", len(x.idMap))
	return nil
}

func loadMetadata(path string) (indexMetadata, error) {
	var meta indexMetadata

	f, err := os.Open(path)
	if err != nil {
		return meta, fmt.Errorf("open index metadata: %w", err)
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(&meta); err != nil {
		return meta, fmt.Errorf("decode index metadata: %w", err)
	}
	return meta, nil
}

func normalizeInPlace(v []float32) {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}

var _ rank.Retriever = (*Index)(nil)
