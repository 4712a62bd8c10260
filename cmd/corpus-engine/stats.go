// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/corpus-engine/internal/corpus"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus-wide statistics",
	Long: `Stats reports the size of the corpus and, with --recent, the articles
published in the last N days.`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}

	store, err := corpus.NewStore(cfg.Corpus)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "articles:       %d\n", stats.TotalArticles)
	fmt.Fprintf(os.Stdout, "unique authors: %d\n", stats.UniqueAuthors)

	days, _ := cmd.Flags().GetInt("recent")
	if days > 0 {
		recent, err := store.RecentArticles(context.Background(), days)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "\n%d articles in the last %d days\n", len(recent), days)
		for _, a := range recent {
			fmt.Fprintf(os.Stdout, "  %-10s  %s\n", a.Published, a.Title)
		}
	}
	return nil
}

func init() {
	statsCmd.Flags().Int("recent", 0, "also list articles from the last N days")

	rootCmd.AddCommand(statsCmd)
}
