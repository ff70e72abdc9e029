// Package library holds the main window's behaviour independent of any UI
// toolkit: it reacts to panel events, drives the search filters and keeps the
// panels in sync with the database.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oukeidos/paperslight/internal/apperrors"
	"github.com/oukeidos/paperslight/internal/files"
	"github.com/oukeidos/paperslight/internal/logger"
	"github.com/oukeidos/paperslight/internal/paper"
	"github.com/oukeidos/paperslight/internal/prefs"
	"github.com/oukeidos/paperslight/internal/search"
	"github.com/oukeidos/paperslight/internal/store"
)

var errNoDatabase = apperrors.New(apperrors.KindStorage, "No database is open. Use File > Open Database File first.", errors.New("no database"))

// Database is the storage the controller reads and writes.
type Database interface {
	YearStats(ctx context.Context, order store.SortOrder) ([]paper.Stat, error)
	BookTitleStats(ctx context.Context, order store.SortOrder) ([]paper.Stat, error)
	AuthorStats(ctx context.Context, order store.SortOrder) ([]paper.Stat, error)
	TagStats(ctx context.Context, order store.SortOrder) ([]paper.Stat, error)
	QueryIDs(ctx context.Context, q search.Query) ([]int64, error)
	Paper(ctx context.Context, id int64) (paper.Paper, error)
	UpdatePaper(ctx context.Context, p paper.Paper) (int64, error)
	RemovePaper(ctx context.Context, p paper.Paper) error
	Close() error
}

// Opener opens the database file at path.
type Opener func(ctx context.Context, path string) (Database, error)

// OpenStore is the Opener backed by the SQLite store.
func OpenStore(ctx context.Context, path string) (Database, error) {
	s, err := store.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// View is what the controller needs from the window's panels.
type View interface {
	// SetCategoryItems replaces the entries of the year, book title, author
	// or tag list.
	SetCategoryItems(kind search.Kind, stats []paper.Stat)
	SetPapers(papers []paper.Paper)
	AppendPaper(p paper.Paper)
	// ShowPaper loads p into the editor.
	ShowPaper(p paper.Paper)
	// EditedPaper returns the editor's current content.
	EditedPaper() paper.Paper
	ShowError(err error)
	SetStatus(msg string)
}

// Controller is not safe for concurrent use; UI toolkits call it from their
// event goroutine only.
type Controller struct {
	ctx   context.Context
	open  Opener
	prefs *prefs.Manager
	view  View

	db     Database
	dbPath string

	search  search.Helper
	keyword string
	papers  []paper.Paper

	yearStats      []paper.Stat
	bookTitleStats []paper.Stat
	authorStats    []paper.Stat
	tagStats       []paper.Stat
}

func NewController(ctx context.Context, open Opener, p *prefs.Manager, v View) *Controller {
	if ctx == nil {
		ctx = context.Background()
	}
	if open == nil {
		open = OpenStore
	}
	return &Controller{ctx: ctx, open: open, prefs: p, view: v}
}

// OpenDatabase switches to the database at path and refreshes every panel.
// An empty path (a cancelled file dialog) does nothing. When the open fails
// the current database stays active.
func (c *Controller) OpenDatabase(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	db, err := c.open(c.ctx, path)
	if err != nil {
		c.fail("Failed to open database", err, "path", path)
		return
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			logger.Warn("Failed to close previous database", "path", c.dbPath, "error", err)
		}
	}
	c.db = db
	c.dbPath = path
	c.prefs.PushRecentDatabase(path)
	logger.Info("Database opened", "path", path)

	c.RefreshAllPanels()
	c.view.SetStatus(fmt.Sprintf("Opened %s", path))
}

// OpenExistingDatabase is OpenDatabase for paths remembered from an earlier
// session. A file that has since gone missing is reported and dropped from
// the recent list instead of being recreated empty.
func (c *Controller) OpenExistingDatabase(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	exists, err := files.Exists(path)
	if err != nil {
		c.fail("Failed to open database", apperrors.Storage(err), "path", path)
		return
	}
	if !exists {
		c.prefs.RemoveRecentDatabase(path)
		err := apperrors.New(apperrors.KindNotFound, fmt.Sprintf("%s no longer exists.", path), errors.New("database file missing"))
		c.fail("Database file missing", err, "path", path)
		return
	}
	c.OpenDatabase(path)
}

// OpenDefaultDatabase opens the database stored in preferences, if any.
func (c *Controller) OpenDefaultDatabase() {
	c.OpenExistingDatabase(c.prefs.DatabaseFilePath())
}

// DatabasePath is the path of the open database, or "".
func (c *Controller) DatabasePath() string {
	return c.dbPath
}

// Close releases the open database.
func (c *Controller) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	c.dbPath = ""
	return err
}

// NewPaper appends an unsaved paper to the list and opens it in the editor.
func (c *Controller) NewPaper() {
	p := paper.New()
	c.papers = append(c.papers, p)
	c.view.AppendPaper(p)
	c.view.ShowPaper(p)
}

func (c *Controller) YearSelectedOnly(index int) {
	c.categorySelectedOnly(search.Year, c.yearStats, index)
}

func (c *Controller) BookTitleSelectedOnly(index int) {
	c.categorySelectedOnly(search.BookTitle, c.bookTitleStats, index)
}

func (c *Controller) AuthorSelectedOnly(index int) {
	c.categorySelectedOnly(search.Author, c.authorStats, index)
}

func (c *Controller) TagSelectedOnly(index int) {
	c.categorySelectedOnly(search.Tag, c.tagStats, index)
}

// categorySelectedOnly replaces every active filter with the selected entry.
func (c *Controller) categorySelectedOnly(kind search.Kind, stats []paper.Stat, index int) {
	if index < 0 || index >= len(stats) {
		logger.Warn("Category selection out of range", "kind", kind, "index", index, "len", len(stats))
		return
	}
	c.search.Clear()
	c.keyword = ""
	c.search.AddFilter(search.Filter{Kind: kind, Value: stats[index].Name})
	c.RefreshPaperList()
}

// SearchTextChanged narrows the current list by a keyword on top of the
// selected category. Empty text removes the keyword.
func (c *Controller) SearchTextChanged(text string) {
	text = strings.TrimSpace(text)
	if text == c.keyword {
		return
	}
	c.keyword = text
	c.search.RemoveKind(search.Keyword)
	if text != "" {
		c.search.AddFilter(search.Filter{Kind: search.Keyword, Value: text})
	}
	c.RefreshPaperList()
}

func (c *Controller) PaperSelectedOnly(index int) {
	if index < 0 || index >= len(c.papers) {
		logger.Warn("Paper selection out of range", "index", index, "len", len(c.papers))
		return
	}
	c.view.ShowPaper(c.papers[index])
}

// SavePaper writes the editor's paper. A new paper takes the id assigned by
// the database.
func (c *Controller) SavePaper() {
	if c.db == nil {
		c.view.ShowError(errNoDatabase)
		return
	}
	p := c.view.EditedPaper()
	id, err := c.db.UpdatePaper(c.ctx, p)
	if err != nil {
		c.fail("Failed to save paper", err, "id", p.ID)
		return
	}
	if p.ID <= 0 {
		p.ID = id
		c.view.ShowPaper(p)
	}
	logger.Info("Paper saved", "id", id)

	c.RefreshAllPanels()
	c.view.SetStatus(fmt.Sprintf("Saved paper %d", id))
}

// RemovePaper deletes p. Unsaved papers only disappear from the list.
func (c *Controller) RemovePaper(p paper.Paper) {
	if c.db == nil {
		c.view.ShowError(errNoDatabase)
		return
	}
	if err := c.db.RemovePaper(c.ctx, p); err != nil {
		c.fail("Failed to remove paper", err, "id", p.ID)
		return
	}
	logger.Info("Paper removed", "id", p.ID)

	c.RefreshAllPanels()
	c.view.ShowPaper(paper.New())
	c.view.SetStatus("Paper removed")
}

// RefreshAllPanels reloads the category lists, clears the filters and
// reloads the paper list.
func (c *Controller) RefreshAllPanels() {
	if c.db == nil {
		return
	}
	var err error
	if c.yearStats, err = c.db.YearStats(c.ctx, store.SortByName); err != nil {
		c.fail("Failed to load year stats", err)
		return
	}
	if c.bookTitleStats, err = c.db.BookTitleStats(c.ctx, store.SortByName); err != nil {
		c.fail("Failed to load book title stats", err)
		return
	}
	if c.authorStats, err = c.db.AuthorStats(c.ctx, store.SortByName); err != nil {
		c.fail("Failed to load author stats", err)
		return
	}
	if c.tagStats, err = c.db.TagStats(c.ctx, store.SortByCount); err != nil {
		c.fail("Failed to load tag stats", err)
		return
	}

	c.view.SetCategoryItems(search.Year, c.yearStats)
	c.view.SetCategoryItems(search.BookTitle, c.bookTitleStats)
	c.view.SetCategoryItems(search.Author, c.authorStats)
	c.view.SetCategoryItems(search.Tag, c.tagStats)

	c.search.Clear()
	c.keyword = ""
	c.RefreshPaperList()
}

// RefreshPaperList runs the current filters and reloads the paper list.
func (c *Controller) RefreshPaperList() {
	if c.db == nil {
		return
	}
	ids, err := c.db.QueryIDs(c.ctx, c.search.Query())
	if err != nil {
		c.fail("Failed to query papers", err)
		return
	}
	papers := make([]paper.Paper, 0, len(ids))
	for _, id := range ids {
		p, err := c.db.Paper(c.ctx, id)
		if err != nil {
			c.fail("Failed to load paper", err, "id", id)
			return
		}
		papers = append(papers, p)
	}
	c.papers = papers
	c.view.SetPapers(c.Papers())
	logger.Debug("Paper list refreshed", "count", len(papers), "filters", c.search.Len())
}

// Papers returns a copy of the listed papers.
func (c *Controller) Papers() []paper.Paper {
	out := make([]paper.Paper, len(c.papers))
	copy(out, c.papers)
	return out
}

// Filters returns the active filters.
func (c *Controller) Filters() []search.Filter {
	return c.search.Filters()
}

func (c *Controller) fail(msg string, err error, args ...any) {
	logger.Error(msg, append(args, "error", err)...)
	c.view.ShowError(err)
}
