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
	"github.com/pdiddy/corpus-engine/internal/rank"
	"github.com/pdiddy/corpus-engine/internal/semantic"
)

var askCmd = &cobra.Command{
	Use:   "ask [query...]",
	Short: "Answer a free-text question against the corpus",
	Long: `Ask classifies the query (author-targeted, topical, or mixed), resolves
author names against the corpus, and returns a ranked result list fusing
direct authorship with vector similarity.

Author queries ("travaux de Yann LeCun", "papers by Hinton") are answered
from the author index without touching the vector index. When the vector
index is missing or the embedding endpoint is down, mixed and topical
queries degrade to author-only results where possible.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

// unavailableRetriever stands in when the vector index cannot be opened;
// the engine then degrades queries that need it.
type unavailableRetriever struct {
	err error
}

func (u unavailableRetriever) Search(context.Context, string, int) ([]rank.Candidate, error) {
	return nil, u.err
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))

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

	var retriever rank.Retriever
	if embedder, embErr := semantic.NewOpenAIEmbedder(cfg.Embedding); embErr != nil {
		fmt.Fprintf(os.Stderr, "warning: embedding unavailable (%v), author queries only\n", embErr)
		retriever = unavailableRetriever{err: embErr}
	} else {
		index, idxErr := semantic.NewIndex(embedder, cfg.Index)
		if idxErr == nil {
			idxErr = index.Load(indexPath(cfg.Index))
		}
		if idxErr != nil {
			fmt.Fprintf(os.Stderr, "warning: vector index unavailable (%v), author queries only\n", idxErr)
			retriever = unavailableRetriever{err: idxErr}
		} else {
			retriever = index
		}
	}

	eng, err := engine.New(articles, retriever, cfg.Engine)
	if err != nil {
		return err
	}

	topK, _ := cmd.Flags().GetInt("top-k")
	out := eng.Search(context.Background(), query, topK)

	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := engine.WriteSessionFile(savePath, query, out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "session saved to %s\n", savePath)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatOutcome(out, jsonOutput)
}

func formatOutcome(out engine.Outcome, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(os.Stdout, "query type: %s (confidence %.1f)\n", out.Plan.Type, out.Plan.Confidence)
	if len(out.Plan.Resolved) > 0 {
		var names []string
		for _, m := range out.Plan.Resolved {
			names = append(names, strings.Join(m.DisplayNames, "/"))
		}
		fmt.Fprintf(os.Stdout, "resolved authors: %s\n", strings.Join(names, ", "))
	}
	if out.Degraded {
		fmt.Fprintln(os.Stdout, "note: vector retrieval unavailable, showing author matches only")
	}

	switch out.Status {
	case engine.StatusInvalidQuery:
		fmt.Fprintln(os.Stdout, "\nThe query carries no searchable signal. Try a topic or an author name.")
		return nil
	case engine.StatusAdapterUnavailable:
		fmt.Fprintln(os.Stdout, "\nVector retrieval is unavailable and no author matched. Try again later.")
		return nil
	case engine.StatusNoResults:
		fmt.Fprintln(os.Stdout, "\nNo results found.")
		printSuggestions(out)
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n%-4s  %-6s  %-10s  %-48s  %s\n", "Rank", "Score", "Date", "Title", "Authors")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for i, r := range out.Results {
		title := r.Article.Title
		if len(title) > 48 {
			title = title[:45] + "..."
		}
		authors := strings.Join(r.Article.AuthorNames(), ", ")
		if len(authors) > 30 {
			authors = authors[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-6.1f  %-10s  %-48s  %s\n",
			i+1, r.Relevance, r.Article.Published, title, authors)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(out.Results))
	return nil
}

func printSuggestions(out engine.Outcome) {
	if len(out.Suggestions) == 0 {
		return
	}
	fmt.Fprintln(os.Stdout, "Did you mean:")
	for _, s := range out.Suggestions {
		fmt.Fprintf(os.Stdout, "  %s (similarity %.2f, %d articles)\n",
			s.DisplayName, s.Similarity, s.ArticleCount)
	}
}

func init() {
	askCmd.Flags().Int("top-k", 0, "number of results (default from config)")
	askCmd.Flags().Bool("json", false, "output the full outcome as JSON")
	askCmd.Flags().String("save", "", "save the session to a YAML file")

	rootCmd.AddCommand(askCmd)
}
