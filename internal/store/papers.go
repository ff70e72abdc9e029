package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oukeidos/paperslight/internal/apperrors"
	"github.com/oukeidos/paperslight/internal/logger"
	"github.com/oukeidos/paperslight/internal/paper"
	"github.com/oukeidos/paperslight/internal/search"
)

// QueryIDs runs a rendered search query and returns the matching paper ids
// in result order.
func (s *Store) QueryIDs(ctx context.Context, q search.Query) ([]int64, error) {
	var ids []int64
	err := s.withRetry(ctx, "query_ids", func() error {
		ids = ids[:0]
		rows, err := s.db.QueryContext(ctx, q.SQL, q.Args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, apperrors.Storage(fmt.Errorf("query papers: %w", err))
	}
	return ids, nil
}

// Paper loads one full record.
func (s *Store) Paper(ctx context.Context, id int64) (paper.Paper, error) {
	var p paper.Paper
	err := s.withRetry(ctx, "paper", func() error {
		var err error
		p, err = s.loadPaper(ctx, id)
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return paper.Paper{}, apperrors.NotFound(fmt.Errorf("paper %d: %w", id, err))
	}
	if err != nil {
		return paper.Paper{}, apperrors.Storage(fmt.Errorf("load paper %d: %w", id, err))
	}
	return p, nil
}

// Papers loads every paper, newest first.
func (s *Store) Papers(ctx context.Context) ([]paper.Paper, error) {
	var h search.Helper
	ids, err := s.QueryIDs(ctx, h.Query())
	if err != nil {
		return nil, err
	}
	out := make([]paper.Paper, 0, len(ids))
	for _, id := range ids {
		p, err := s.Paper(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) loadPaper(ctx context.Context, id int64) (paper.Paper, error) {
	p := paper.Paper{ID: id}
	err := s.db.QueryRowContext(ctx, `
		SELECT type, title, year, book_title, pages, publisher, url, note
		FROM papers WHERE id = ?`, id).
		Scan(&p.Type, &p.Title, &p.Year, &p.BookTitle, &p.Pages, &p.Publisher, &p.URL, &p.Note)
	if err != nil {
		return paper.Paper{}, err
	}

	p.Authors, err = s.names(ctx, `
		SELECT authors.name FROM paper_authors
		JOIN authors ON authors.id = paper_authors.author_id
		WHERE paper_authors.paper_id = ?
		ORDER BY paper_authors.position`, id)
	if err != nil {
		return paper.Paper{}, err
	}
	p.Tags, err = s.names(ctx, `
		SELECT tags.name FROM paper_tags
		JOIN tags ON tags.id = paper_tags.tag_id
		WHERE paper_tags.paper_id = ?
		ORDER BY tags.name COLLATE NOCASE`, id)
	if err != nil {
		return paper.Paper{}, err
	}
	return p, nil
}

func (s *Store) names(ctx context.Context, query string, id int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// UpdatePaper inserts p when p.ID <= 0 and updates it otherwise. Authors and
// tags are replaced. It returns the paper's id.
func (s *Store) UpdatePaper(ctx context.Context, p paper.Paper) (int64, error) {
	p = p.Normalize()
	if p.Type == "" {
		p.Type = paper.DefaultType
	}
	if p.Title == "" {
		return 0, apperrors.Validation("title is required")
	}
	if !paper.IsKnownType(p.Type) {
		return 0, apperrors.Validation(fmt.Sprintf("unknown paper type %q", p.Type))
	}

	var id int64
	err := s.withRetry(ctx, "update_paper", func() error {
		var err error
		id, err = s.updatePaperTx(ctx, p)
		return err
	})
	if err != nil {
		return 0, apperrors.Storage(fmt.Errorf("save paper: %w", err))
	}
	logger.Debug("Paper saved", "id", id, "inserted", p.ID <= 0)
	return id, nil
}

func (s *Store) updatePaperTx(ctx context.Context, p paper.Paper) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	id := p.ID
	if id <= 0 {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO papers(type, title, year, book_title, pages, publisher, url, note, created_at, updated_at)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Type, p.Title, p.Year, p.BookTitle, p.Pages, p.Publisher, p.URL, p.Note, now, now)
		if err != nil {
			return 0, err
		}
		if id, err = res.LastInsertId(); err != nil {
			return 0, err
		}
	} else {
		res, err := tx.ExecContext(ctx, `
			UPDATE papers SET type = ?, title = ?, year = ?, book_title = ?, pages = ?,
				publisher = ?, url = ?, note = ?, updated_at = ?
			WHERE id = ?`,
			p.Type, p.Title, p.Year, p.BookTitle, p.Pages, p.Publisher, p.URL, p.Note, now, id)
		if err != nil {
			return 0, err
		}
		if n, err := res.RowsAffected(); err != nil {
			return 0, err
		} else if n == 0 {
			return 0, apperrors.NotFound(fmt.Errorf("paper %d", id))
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM paper_authors WHERE paper_id = ?", id); err != nil {
		return 0, err
	}
	for pos, name := range p.Authors {
		authorID, err := upsertName(ctx, tx, "authors", name)
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO paper_authors(paper_id, author_id, position) VALUES(?, ?, ?)", id, authorID, pos); err != nil {
			return 0, err
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM paper_tags WHERE paper_id = ?", id); err != nil {
		return 0, err
	}
	for _, name := range p.Tags {
		tagID, err := upsertName(ctx, tx, "tags", name)
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO paper_tags(paper_id, tag_id) VALUES(?, ?)", id, tagID); err != nil {
			return 0, err
		}
	}

	if err := pruneOrphans(ctx, tx); err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// upsertName returns the id of name in table (authors or tags), inserting it
// when missing.
func upsertName(ctx context.Context, tx *sql.Tx, table, name string) (int64, error) {
	if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO "+table+"(name) VALUES(?)", name); err != nil {
		return 0, err
	}
	var id int64
	err := tx.QueryRowContext(ctx, "SELECT id FROM "+table+" WHERE name = ?", name).Scan(&id)
	return id, err
}

func pruneOrphans(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM authors WHERE id NOT IN (SELECT author_id FROM paper_authors)"); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx,
		"DELETE FROM tags WHERE id NOT IN (SELECT tag_id FROM paper_tags)")
	return err
}

// RemovePaper deletes p and any authors or tags no other paper uses.
// Removing an unsaved paper is a no-op.
func (s *Store) RemovePaper(ctx context.Context, p paper.Paper) error {
	if !p.Saved() {
		return nil
	}
	err := s.withRetry(ctx, "remove_paper", func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.ExecContext(ctx, "DELETE FROM paper_authors WHERE paper_id = ?", p.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM paper_tags WHERE paper_id = ?", p.ID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM papers WHERE id = ?", p.ID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return apperrors.NotFound(fmt.Errorf("paper %d", p.ID))
		}
		if err := pruneOrphans(ctx, tx); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return apperrors.Storage(fmt.Errorf("remove paper %d: %w", p.ID, err))
	}
	logger.Debug("Paper removed", "id", p.ID)
	return nil
}
