// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/corpus-engine/internal/corpus"
	"github.com/pdiddy/corpus-engine/internal/fetch"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch articles from arXiv into the corpus database",
	Long: `Ingest runs the configured seed queries against the arXiv API and stores
the results in the SQLite corpus. Articles with too-short abstracts are
skipped; re-ingesting an existing article updates it in place.

Seed queries come from the config file; --query overrides them for one run.`,
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}

	if queries, _ := cmd.Flags().GetStringSlice("query"); len(queries) > 0 {
		cfg.Fetch.Queries = queries
	}
	if maxPer, _ := cmd.Flags().GetInt("max-per-query"); maxPer > 0 {
		cfg.Fetch.MaxPerQuery = maxPer
	}
	if len(cfg.Fetch.Queries) == 0 {
		return fmt.Errorf("no seed queries: set fetch.queries in the config or pass --query")
	}

	articles, err := fetch.New(cfg.Fetch).FetchAll(context.Background(), os.Stdout)
	if err != nil {
		return err
	}

	store, err := corpus.NewStore(cfg.Corpus)
	if err != nil {
		return err
	}
	defer store.Close()

	if _, err := store.Upsert(context.Background(), articles, os.Stdout); err != nil {
		return err
	}
	return nil
}

func init() {
	ingestCmd.Flags().StringSlice("query", nil, "seed query (repeatable, overrides config)")
	ingestCmd.Flags().Int("max-per-query", 0, "maximum articles fetched per seed query")

	rootCmd.AddCommand(ingestCmd)
}
