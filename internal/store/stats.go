package store

import (
	"context"
	"fmt"

	"github.com/oukeidos/paperslight/internal/apperrors"
	"github.com/oukeidos/paperslight/internal/paper"
)

type SortOrder int

const (
	SortByName SortOrder = iota
	SortByCount
)

func (o SortOrder) orderBy() string {
	if o == SortByCount {
		return "ORDER BY 2 DESC, 1 COLLATE NOCASE"
	}
	return "ORDER BY 1 COLLATE NOCASE"
}

// YearStats counts papers per known year.
func (s *Store) YearStats(ctx context.Context, order SortOrder) ([]paper.Stat, error) {
	return s.stats(ctx, "year", `
		SELECT CAST(year AS TEXT), COUNT(*)
		FROM papers
		WHERE year > 0
		GROUP BY year
		`+order.orderBy())
}

// BookTitleStats counts papers per non-empty book title.
func (s *Store) BookTitleStats(ctx context.Context, order SortOrder) ([]paper.Stat, error) {
	return s.stats(ctx, "book_title", `
		SELECT book_title, COUNT(*)
		FROM papers
		WHERE book_title <> ''
		GROUP BY book_title
		`+order.orderBy())
}

func (s *Store) AuthorStats(ctx context.Context, order SortOrder) ([]paper.Stat, error) {
	return s.stats(ctx, "author", `
		SELECT authors.name, COUNT(paper_authors.paper_id)
		FROM authors
		JOIN paper_authors ON authors.id = paper_authors.author_id
		GROUP BY authors.id
		`+order.orderBy())
}

func (s *Store) TagStats(ctx context.Context, order SortOrder) ([]paper.Stat, error) {
	return s.stats(ctx, "tag", `
		SELECT tags.name, COUNT(paper_tags.paper_id)
		FROM tags
		JOIN paper_tags ON tags.id = paper_tags.tag_id
		GROUP BY tags.id
		`+order.orderBy())
}

func (s *Store) stats(ctx context.Context, name, query string) ([]paper.Stat, error) {
	var out []paper.Stat
	err := s.withRetry(ctx, name+"_stats", func() error {
		out = out[:0]
		rows, err := s.db.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var st paper.Stat
			if err := rows.Scan(&st.Name, &st.Count); err != nil {
				return err
			}
			out = append(out, st)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, apperrors.Storage(fmt.Errorf("%s stats: %w", name, err))
	}
	return out, nil
}
