// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/corpus-engine/internal/corpus"
	"github.com/pdiddy/corpus-engine/internal/engine"
)

var authorsCmd = &cobra.Command{
	Use:   "authors",
	Short: "Inspect the author index (articles, stats, suggestions)",
	Long: `Authors answers questions about the corpus's author index: list an
author's articles, show their publication statistics, or find close
spellings for a name. Names resolve with the same exact/substring/surname/
fuzzy rules the query engine uses.`,
}

// authorEngine builds an engine over the stored corpus. Author operations
// never touch the vector index.
func authorEngine() (*engine.Engine, func(), error) {
	cfg, err := pipelineConfig()
	if err != nil {
		return nil, nil, err
	}

	store, err := corpus.NewStore(cfg.Corpus)
	if err != nil {
		return nil, nil, err
	}

	articles, err := store.Load(context.Background())
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	eng, err := engine.New(articles, unavailableRetriever{err: fmt.Errorf("vector index not loaded")}, cfg.Engine)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return eng, func() { store.Close() }, nil
}

var authorsArticlesCmd = &cobra.Command{
	Use:   "articles [name]",
	Short: "List an author's articles, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, done, err := authorEngine()
		if err != nil {
			return err
		}
		defer done()

		limit, _ := cmd.Flags().GetInt("limit")
		articles := eng.ArticlesByAuthor(args[0], limit)
		if len(articles) == 0 {
			fmt.Fprintf(os.Stdout, "no articles found for %q\n", args[0])
			printDidYouMean(eng, args[0])
			return nil
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(articles)
		}

		for _, a := range articles {
			fmt.Fprintf(os.Stdout, "%-10s  %-12s  %s\n", a.Published, a.ID, a.Title)
		}
		fmt.Fprintf(os.Stdout, "\n%d articles\n", len(articles))
		return nil
	},
}

var authorsStatsCmd = &cobra.Command{
	Use:   "stats [name]",
	Short: "Show an author's publication statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, done, err := authorEngine()
		if err != nil {
			return err
		}
		defer done()

		stats, ok := eng.AuthorStats(args[0])
		if !ok {
			fmt.Fprintf(os.Stdout, "no author matching %q\n", args[0])
			printDidYouMean(eng, args[0])
			return nil
		}

		fmt.Fprintf(os.Stdout, "author:    %s\n", strings.Join(stats.DisplayNames, ", "))
		fmt.Fprintf(os.Stdout, "articles:  %d\n", stats.ArticleCount)
		if stats.FirstYear != "" {
			fmt.Fprintf(os.Stdout, "active:    %s-%s\n", stats.FirstYear, stats.LastYear)
		}
		return nil
	},
}

var authorsSuggestCmd = &cobra.Command{
	Use:   "suggest [name...]",
	Short: "Find close spellings for author names",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, done, err := authorEngine()
		if err != nil {
			return err
		}
		defer done()

		suggestions := eng.SuggestAuthors(args)
		if len(suggestions) == 0 {
			fmt.Fprintln(os.Stdout, "no close matches")
			return nil
		}
		for _, s := range suggestions {
			fmt.Fprintf(os.Stdout, "%-30s  similarity %.2f  %d articles\n",
				s.DisplayName, s.Similarity, s.ArticleCount)
		}
		return nil
	},
}

func printDidYouMean(eng *engine.Engine, name string) {
	suggestions := eng.SuggestAuthors([]string{name})
	if len(suggestions) == 0 {
		return
	}
	fmt.Fprintln(os.Stdout, "did you mean:")
	for _, s := range suggestions {
		fmt.Fprintf(os.Stdout, "  %s (%d articles)\n", s.DisplayName, s.ArticleCount)
	}
}

func init() {
	authorsArticlesCmd.Flags().Int("limit", 0, "maximum articles to list (0 = all)")
	authorsArticlesCmd.Flags().Bool("json", false, "output as JSON")

	authorsCmd.AddCommand(authorsArticlesCmd)
	authorsCmd.AddCommand(authorsStatsCmd)
	authorsCmd.AddCommand(authorsSuggestCmd)
	rootCmd.AddCommand(authorsCmd)
}
