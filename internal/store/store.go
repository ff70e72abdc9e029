// Package store keeps papers in a SQLite file.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/oukeidos/paperslight/internal/apperrors"
	"github.com/oukeidos/paperslight/internal/logger"
	"github.com/oukeidos/paperslight/internal/search"
)

type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, apperrors.Validation("database path is empty")
	}
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, apperrors.Storage(fmt.Errorf("open %s: %w", path, err))
	}
	// A single connection keeps PRAGMAs and transactions on one handle.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.init(ctx); err != nil {
		db.Close()
		return nil, apperrors.Storage(fmt.Errorf("init %s: %w", path, err))
	}
	logger.Debug("Database opened", "path", path)
	return s, nil
}

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(search.FoldFunc, 1, foldValue); err != nil {
		panic(fmt.Sprintf("register %s: %v", search.FoldFunc, err))
	}
}

func foldValue(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return search.Fold(v), nil
	case []byte:
		return search.Fold(string(v)), nil
	default:
		return v, nil
	}
}

// dsn escapes path into a file: URI so '#', '?' and '%' stay part of the
// file name.
func dsn(path string) string {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path
	}
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	// A relative path would be read as the URI authority.
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path), RawQuery: q.Encode()}
	if !strings.HasPrefix(u.Path, "/") {
		// file:///C:/dir/papers.db
		u.Path = "/" + u.Path
	}
	return u.String()
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return err
	}
	var v int
	err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&v)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = s.db.ExecContext(ctx, "INSERT INTO schema_version(version) VALUES(?)", schemaVersion)
		return err
	case err != nil:
		return err
	case v > schemaVersion:
		return fmt.Errorf("database schema version %d is newer than supported %d", v, schemaVersion)
	}
	return nil
}

// withRetry runs fn, retrying while SQLite reports the file as busy.
func (s *Store) withRetry(ctx context.Context, op string, fn func() error) error {
	start := time.Now()
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || !isSQLiteBusy(err) || attempt >= 2 {
			if err != nil {
				logger.Debug("sql op failed", "op", op, "attempts", attempt+1, "error", err)
			}
			return err
		}
		logger.Debug("sql op busy", "op", op, "attempt", attempt+1, "elapsed_ms", time.Since(start).Milliseconds())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay(attempt)):
		}
	}
}

func isSQLiteBusy(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_BUSY
	}
	return false
}

func retryDelay(attempt int) time.Duration {
	delay := time.Duration(attempt+1) * 40 * time.Millisecond
	if delay > 300*time.Millisecond {
		delay = 300 * time.Millisecond
	}
	return delay
}
