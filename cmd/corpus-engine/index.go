// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/corpus-engine/internal/corpus"
	"github.com/pdiddy/corpus-engine/internal/semantic"
	"github.com/pdiddy/corpus-engine/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the semantic vector index from the corpus",
	Long: `Index embeds every article's title and abstract through the configured
embedding endpoint and builds an HNSW vector index, persisted next to the
corpus database. Run it after ingest and whenever the corpus changes.`,
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}

	store, err := corpus.NewStore(cfg.Corpus)
	if err != nil {
		return err
	}
	defer store.Close()

	articles, err := store.Load(context.Background())
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		return fmt.Errorf("corpus is empty: run ingest first")
	}

	embedder, err := semantic.NewOpenAIEmbedder(cfg.Embedding)
	if err != nil {
		return err
	}
	index, err := semantic.NewIndex(embedder, cfg.Index)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "embedding %d articles\n", len(articles))
	if err := index.Build(context.Background(), articles, cfg.Embedding.BatchSize); err != nil {
		return err
	}

	path := indexPath(cfg.Index)
	if err := index.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "index written to %s (%d vectors)\n", path, index.Len())
	return nil
}

func indexPath(cfg types.IndexConfig) string {
	if cfg.Path != "" {
		return cfg.Path
	}
	return filepath.Join("corpus", "vectors.hnsw")
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
