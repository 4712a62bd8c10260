// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus persists articles and their author links in SQLite and
// serves the snapshot the retrieval engine is built from.
// Implements: prd101-corpus (R1-R5).
package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/corpus-engine/pkg/types"
)

// Store manages the corpus SQLite database.
type Store struct {
	db             *sql.DB
	minAbstractLen int
}

// NewStore opens or creates the corpus database at cfg.DBPath, creating
// the schema if it does not exist.
func NewStore(cfg types.CorpusConfig) (*Store, error) {
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("corpus", "articles.db")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating corpus directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	minLen := cfg.MinAbstractLen
	if minLen <= 0 {
		minLen = 50
	}

	s := &Store{db: db, minAbstractLen: minLen}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			abstract TEXT,
			published TEXT,
			categories TEXT,
			doi TEXT,
			pdf_url TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS authors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS article_authors (
			article_id TEXT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
			author_id INTEGER NOT NULL REFERENCES authors(id),
			position INTEGER NOT NULL,
			affiliation TEXT,
			PRIMARY KEY (article_id, author_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_article_authors_author ON article_authors(author_id)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from a corpus ingest run.
type IngestSummary struct {
	Inserted int
	Updated  int
	Skipped  int
}

// Total returns the number of articles processed.
func (s IngestSummary) Total() int {
	return s.Inserted + s.Updated + s.Skipped
}

// Upsert writes articles into the store. Articles whose abstract is
// shorter than the configured minimum are skipped; re-ingesting an
// existing article replaces its record and author links. Progress lines
// go to w.
func (s *Store) Upsert(ctx context.Context, articles []types.Article, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, a := range articles {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		if len(a.Abstract) < s.minAbstractLen {
			fmt.Fprintf(w, "skipped %s: abstract too short\n", a.ID)
			summary.Skipped++
			continue
		}

		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT count(*) FROM articles WHERE id = ?`, a.ID,
		).Scan(&exists)
		if err != nil {
			return summary, fmt.Errorf("checking article %s: %w", a.ID, err)
		}

		if err := upsertArticle(ctx, tx, a); err != nil {
			return summary, fmt.Errorf("upserting article %s: %w", a.ID, err)
		}

		if exists > 0 {
			summary.Updated++
		} else {
			fmt.Fprintf(w, "stored %s (%s)\n", a.ID, a.Title)
			summary.Inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing ingest: %w", err)
	}

	fmt.Fprintf(w, "\ninserted: %d, updated: %d, skipped: %d\n",
		summary.Inserted, summary.Updated, summary.Skipped)
	return summary, nil
}

func upsertArticle(ctx context.Context, tx *sql.Tx, a types.Article) error {
	categoriesJSON, _ := json.Marshal(a.Categories)
	_, err := tx.ExecContext(ctx,
		`INSERT INTO articles (id, title, abstract, published, categories, doi, pdf_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, abstract=excluded.abstract,
			published=excluded.published, categories=excluded.categories,
			doi=excluded.doi, pdf_url=excluded.pdf_url`,
		a.ID, a.Title, a.Abstract, a.Published, string(categoriesJSON), a.DOI, a.PDFURL,
	)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM article_authors WHERE article_id = ?`, a.ID,
	); err != nil {
		return fmt.Errorf("clearing author links: %w", err)
	}

	for pos, mention := range a.Authors {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO authors (name) VALUES (?)`, mention.Name,
		); err != nil {
			return fmt.Errorf("inserting author %q: %w", mention.Name, err)
		}

		var authorID int64
		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM authors WHERE name = ?`, mention.Name,
		).Scan(&authorID); err != nil {
			return fmt.Errorf("resolving author %q: %w", mention.Name, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO article_authors (article_id, author_id, position, affiliation)
			 VALUES (?, ?, ?, ?)`,
			a.ID, authorID, pos, mention.Affiliation,
		); err != nil {
			return fmt.Errorf("linking author %q: %w", mention.Name, err)
		}
	}
	return nil
}

// Load returns the full corpus snapshot with authors in position order.
// The engine builds its author index from this snapshot; later writes to
// the store do not affect indexes already built.
func (s *Store) Load(ctx context.Context) ([]types.Article, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, abstract, published, categories, doi, pdf_url
		 FROM articles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var articles []types.Article
	byID := make(map[string]int)
	for rows.Next() {
		var a types.Article
		var categoriesJSON string
		if err := rows.Scan(&a.ID, &a.Title, &a.Abstract, &a.Published,
			&categoriesJSON, &a.DOI, &a.PDFURL); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		if categoriesJSON != "" {
			if err := json.Unmarshal([]byte(categoriesJSON), &a.Categories); err != nil {
				return nil, fmt.Errorf("parsing categories for %s: %w", a.ID, err)
			}
		}
		byID[a.ID] = len(articles)
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating articles: %w", err)
	}

	authorRows, err := s.db.QueryContext(ctx,
		`SELECT aa.article_id, au.name, aa.affiliation
		 FROM article_authors aa
		 JOIN authors au ON au.id = aa.author_id
		 ORDER BY aa.article_id, aa.position`)
	if err != nil {
		return nil, fmt.Errorf("querying author links: %w", err)
	}
	defer authorRows.Close()

	for authorRows.Next() {
		var articleID, name string
		var affiliation sql.NullString
		if err := authorRows.Scan(&articleID, &name, &affiliation); err != nil {
			return nil, fmt.Errorf("scanning author link: %w", err)
		}
		if i, ok := byID[articleID]; ok {
			articles[i].Authors = append(articles[i].Authors, types.AuthorMention{
				Name:        name,
				Affiliation: affiliation.String,
			})
		}
	}
	if err := authorRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating author links: %w", err)
	}

	return articles, nil
}

// Stats returns corpus-wide counts.
func (s *Store) Stats(ctx context.Context) (types.CorpusStats, error) {
	var stats types.CorpusStats
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM articles`,
	).Scan(&stats.TotalArticles); err != nil {
		return stats, fmt.Errorf("counting articles: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM authors`,
	).Scan(&stats.UniqueAuthors); err != nil {
		return stats, fmt.Errorf("counting authors: %w", err)
	}
	return stats, nil
}

// RecentArticles returns articles published within the last days days,
// newest first.
func (s *Store) RecentArticles(ctx context.Context, days int) ([]types.Article, error) {
	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format("2006-01-02")

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, abstract, published, categories, doi, pdf_url
		 FROM articles WHERE published >= ? ORDER BY published DESC`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("querying recent articles: %w", err)
	}
	defer rows.Close()

	var articles []types.Article
	for rows.Next() {
		var a types.Article
		var categoriesJSON string
		if err := rows.Scan(&a.ID, &a.Title, &a.Abstract, &a.Published,
			&categoriesJSON, &a.DOI, &a.PDFURL); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		if categoriesJSON != "" {
			if err := json.Unmarshal([]byte(categoriesJSON), &a.Categories); err != nil {
				return nil, fmt.Errorf("parsing categories for %s: %w", a.ID, err)
			}
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}
