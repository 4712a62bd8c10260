// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "corpus-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// FetchConfig holds settings for corpus acquisition from the arXiv API.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Queries are the topical seed queries used to populate the corpus.
	Queries []string `json:"queries" yaml:"queries" mapstructure:"queries"`

	// MaxPerQuery is the maximum number of articles fetched per seed query
	// (default 100).
	MaxPerQuery int `json:"max_per_query" yaml:"max_per_query" mapstructure:"max_per_query"`

	// RequestDelay is the pause between consecutive API calls (default 1s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay" mapstructure:"request_delay"`
}

// CorpusConfig holds settings for the SQLite corpus store.
type CorpusConfig struct {
	// DBPath is the SQLite database file (default "corpus/articles.db").
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`

	// MinAbstractLen drops articles whose abstract is shorter than this
	// during ingest (default 50).
	MinAbstractLen int `json:"min_abstract_len" yaml:"min_abstract_len" mapstructure:"min_abstract_len"`
}

// EmbeddingConfig holds settings for the embedding client. The engine talks
// to any OpenAI-compatible embeddings endpoint; a local server works with an
// empty API key.
type EmbeddingConfig struct {
	// Host is the base URL of the embeddings endpoint.
	Host string `json:"host" yaml:"host" mapstructure:"host"`

	// Model is the embedding model identifier (e.g. "all-minilm-l6-v2").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey authenticates against the endpoint; optional for local servers.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BatchSize is the number of texts embedded per request (default 32).
	BatchSize int `json:"batch_size" yaml:"batch_size" mapstructure:"batch_size"`
}

// IndexConfig holds settings for the HNSW vector index.
type IndexConfig struct {
	// Path is where the index graph and its ID mappings are persisted
	// (default "corpus/vectors.hnsw").
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Dimensions is the embedding vector width (default 384).
	Dimensions int `json:"dimensions" yaml:"dimensions" mapstructure:"dimensions"`

	// M is the HNSW connectivity parameter (default 16).
	M int `json:"m" yaml:"m" mapstructure:"m"`

	// EfSearch is the HNSW search expansion factor (default 20).
	EfSearch int `json:"ef_search" yaml:"ef_search" mapstructure:"ef_search"`

	// CacheSize is the capacity of the query-embedding LRU cache (default 256).
	CacheSize int `json:"cache_size" yaml:"cache_size" mapstructure:"cache_size"`
}

// EngineConfig holds the query-understanding and ranking policy knobs. The
// thresholds are tunable policy, not derived values; changing them never
// changes the shape of the algorithm.
type EngineConfig struct {
	// TopK is the default number of results returned (default 5).
	TopK int `json:"top_k" yaml:"top_k" mapstructure:"top_k"`

	// PoolMultiplier oversizes the vector candidate pool relative to TopK so
	// year filtering and author partitioning have slack (default 3).
	PoolMultiplier int `json:"pool_multiplier" yaml:"pool_multiplier" mapstructure:"pool_multiplier"`

	// BoostFactor multiplies the relevance of author-matched candidates on
	// the mixed path, capped at 100 (default 1.2).
	BoostFactor float64 `json:"boost_factor" yaml:"boost_factor" mapstructure:"boost_factor"`

	// MatchThreshold is the minimum fuzzy similarity for author matching
	// proper (default 0.8).
	MatchThreshold float64 `json:"match_threshold" yaml:"match_threshold" mapstructure:"match_threshold"`

	// SuggestThreshold is the minimum fuzzy similarity for "did you mean"
	// suggestions (default 0.6).
	SuggestThreshold float64 `json:"suggest_threshold" yaml:"suggest_threshold" mapstructure:"suggest_threshold"`

	// DirectConfidence is the plan confidence above which an author query
	// bypasses vector retrieval entirely (default 0.8).
	DirectConfidence float64 `json:"direct_confidence" yaml:"direct_confidence" mapstructure:"direct_confidence"`

	// AdapterTimeout bounds the vector retrieval call; past it the query
	// degrades to author-only results (default 10s).
	AdapterTimeout time.Duration `json:"adapter_timeout" yaml:"adapter_timeout" mapstructure:"adapter_timeout"`
}

// WithDefaults returns a copy of the config with zero fields replaced by
// their defaults.
func (c EngineConfig) WithDefaults() EngineConfig {
	if c.TopK <= 0 {
		c.TopK = 5
	}
	if c.PoolMultiplier <= 0 {
		c.PoolMultiplier = 3
	}
	if c.BoostFactor <= 0 {
		c.BoostFactor = 1.2
	}
	if c.MatchThreshold <= 0 {
		c.MatchThreshold = 0.8
	}
	if c.SuggestThreshold <= 0 {
		c.SuggestThreshold = 0.6
	}
	if c.DirectConfidence <= 0 {
		c.DirectConfidence = 0.8
	}
	if c.AdapterTimeout <= 0 {
		c.AdapterTimeout = 10 * time.Second
	}
	return c
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Corpus    CorpusConfig    `json:"corpus" yaml:"corpus" mapstructure:"corpus"`
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding" mapstructure:"embedding"`
	Index     IndexConfig     `json:"index" yaml:"index" mapstructure:"index"`
	Engine    EngineConfig    `json:"engine" yaml:"engine" mapstructure:"engine"`
}
