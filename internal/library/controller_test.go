package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/oukeidos/paperslight/internal/apperrors"
	"github.com/oukeidos/paperslight/internal/paper"
	"github.com/oukeidos/paperslight/internal/prefs"
	"github.com/oukeidos/paperslight/internal/search"
	"github.com/oukeidos/paperslight/internal/store"
)

type fakeView struct {
	categories map[search.Kind][]paper.Stat
	papers     []paper.Paper
	shown      paper.Paper
	edited     paper.Paper
	errs       []error
	status     string
	setCalls   int
}

func newFakeView() *fakeView {
	return &fakeView{categories: map[search.Kind][]paper.Stat{}}
}

func (v *fakeView) SetCategoryItems(kind search.Kind, stats []paper.Stat) { v.categories[kind] = stats }
func (v *fakeView) SetPapers(papers []paper.Paper)                        { v.papers = papers; v.setCalls++ }
func (v *fakeView) AppendPaper(p paper.Paper)                             { v.papers = append(v.papers, p) }
func (v *fakeView) ShowPaper(p paper.Paper)                               { v.shown = p; v.edited = p }
func (v *fakeView) EditedPaper() paper.Paper                              { return v.edited }
func (v *fakeView) ShowError(err error)                                   { v.errs = append(v.errs, err) }
func (v *fakeView) SetStatus(msg string)                                  { v.status = msg }

type mapPrefs map[string]string

func (m mapPrefs) String(key string) string                      { return m[key] }
func (m mapPrefs) SetString(key, value string)                   { m[key] = value }
func (m mapPrefs) BoolWithFallback(_ string, fallback bool) bool { return fallback }
func (m mapPrefs) SetBool(string, bool)                          {}

func seededController(t *testing.T) (*Controller, *fakeView) {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "papers.db")

	s, err := store.Open(ctx, path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	for _, p := range []paper.Paper{
		{Title: "A Relational Model of Data", Year: 1970, BookTitle: "CACM", Authors: []string{"Codd"}, Tags: []string{"db"}},
		{Title: "Paxos Made Simple", Year: 2001, BookTitle: "SIGACT News", Authors: []string{"Lamport"}, Tags: []string{"consensus", "distributed"}},
		{Title: "The Part-Time Parliament", Year: 1998, BookTitle: "TOCS", Authors: []string{"Lamport"}, Tags: []string{"consensus"}},
	} {
		if _, err := s.UpdatePaper(ctx, p); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	s.Close()

	v := newFakeView()
	c := NewController(ctx, nil, prefs.NewManager(mapPrefs{}), v)
	c.OpenDatabase(path)
	t.Cleanup(func() { c.Close() })
	if len(v.errs) > 0 {
		t.Fatalf("unexpected errors: %v", v.errs)
	}
	return c, v
}

func titles(papers []paper.Paper) []string {
	out := make([]string, 0, len(papers))
	for _, p := range papers {
		out = append(out, p.Title)
	}
	return out
}

func TestOpenDatabasePopulatesPanels(t *testing.T) {
	c, v := seededController(t)

	if got := len(v.papers); got != 3 {
		t.Fatalf("paper list has %d entries, want 3", got)
	}
	if got := v.categories[search.Year]; len(got) != 3 || got[0].Name != "1970" {
		t.Fatalf("year list = %v", got)
	}
	if got := v.categories[search.Tag]; len(got) != 3 || got[0].Name != "consensus" || got[0].Count != 2 {
		t.Fatalf("tag list should be sorted by count, got %v", got)
	}
	if c.DatabasePath() == "" {
		t.Fatalf("expected database path to be recorded")
	}
}

func TestOpenDatabaseEmptyPathIsNoop(t *testing.T) {
	opened := false
	v := newFakeView()
	c := NewController(context.Background(), func(context.Context, string) (Database, error) {
		opened = true
		return nil, nil
	}, nil, v)

	c.OpenDatabase("   ")
	c.OpenDefaultDatabase()
	if opened {
		t.Fatalf("empty path must not open a database")
	}
	if len(v.errs) != 0 {
		t.Fatalf("empty path must not report errors: %v", v.errs)
	}
}

func TestOpenDatabaseFailureKeepsCurrent(t *testing.T) {
	c, v := seededController(t)
	before := c.DatabasePath()

	c.open = func(context.Context, string) (Database, error) {
		return nil, errors.New("not a database")
	}
	c.OpenDatabase("/nonexistent/other.db")

	if c.DatabasePath() != before {
		t.Fatalf("database switched despite open failure")
	}
	if len(v.errs) != 1 {
		t.Fatalf("expected one reported error, got %v", v.errs)
	}
}

func TestOpenDefaultDatabaseUsesPreferences(t *testing.T) {
	var gotPath string
	path := filepath.Join(t.TempDir(), "papers.db")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	p := prefs.NewManager(mapPrefs{})
	p.SetDatabaseFilePath(path)

	c := NewController(context.Background(), func(_ context.Context, path string) (Database, error) {
		gotPath = path
		return nil, errors.New("stop here")
	}, p, newFakeView())
	c.OpenDefaultDatabase()

	if gotPath != path {
		t.Fatalf("opened %q, want %q", gotPath, path)
	}
}

func TestOpenExistingDatabaseMissingFile(t *testing.T) {
	c, v := seededController(t)
	before := c.DatabasePath()
	stale := filepath.Join(t.TempDir(), "moved.db")
	c.prefs.PushRecentDatabase(stale)
	c.prefs.PushRecentDatabase(before)

	c.OpenExistingDatabase(stale)

	if c.DatabasePath() != before {
		t.Fatalf("database switched to a missing file")
	}
	if len(v.errs) != 1 || !apperrors.Is(v.errs[0], apperrors.KindNotFound) {
		t.Fatalf("expected one not-found error, got %v", v.errs)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("missing database was created: %v", err)
	}
	for _, p := range c.prefs.RecentDatabases() {
		if p == stale {
			t.Fatalf("stale path kept in recent list: %v", c.prefs.RecentDatabases())
		}
	}
}

func TestOpenDefaultDatabaseMissingFile(t *testing.T) {
	opened := false
	p := prefs.NewManager(mapPrefs{})
	p.SetDatabaseFilePath(filepath.Join(t.TempDir(), "gone.db"))
	v := newFakeView()

	c := NewController(context.Background(), func(context.Context, string) (Database, error) {
		opened = true
		return nil, nil
	}, p, v)
	c.OpenDefaultDatabase()

	if opened {
		t.Fatalf("missing default database must not be opened")
	}
	if len(v.errs) != 1 {
		t.Fatalf("expected one reported error, got %v", v.errs)
	}
}

func TestCategorySelectionReplacesFilters(t *testing.T) {
	c, v := seededController(t)

	selectors := []struct {
		kind   search.Kind
		choose func(int)
	}{
		{search.Year, c.YearSelectedOnly},
		{search.BookTitle, c.BookTitleSelectedOnly},
		{search.Author, c.AuthorSelectedOnly},
		{search.Tag, c.TagSelectedOnly},
	}
	for _, sel := range selectors {
		sel.choose(0)
		filters := c.Filters()
		if len(filters) != 1 || filters[0].Kind != sel.kind {
			t.Fatalf("after selecting %v: filters = %v, want exactly one of that kind", sel.kind, filters)
		}
		if filters[0].Value != v.categories[sel.kind][0].Name {
			t.Fatalf("filter value = %q, want %q", filters[0].Value, v.categories[sel.kind][0].Name)
		}
	}

	c.AuthorSelectedOnly(1) // Lamport
	want := []string{"Paxos Made Simple", "The Part-Time Parliament"}
	if got := titles(v.papers); len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("paper list = %v, want %v", got, want)
	}
}

func TestCategorySelectionOutOfRange(t *testing.T) {
	c, v := seededController(t)
	calls := v.setCalls

	c.TagSelectedOnly(99)
	c.YearSelectedOnly(-1)
	if v.setCalls != calls {
		t.Fatalf("out-of-range selection must not requery")
	}
	c.PaperSelectedOnly(7)
	if v.shown.Title != "" {
		t.Fatalf("out-of-range paper selection showed %+v", v.shown)
	}
}

func TestSearchTextNarrowsCategory(t *testing.T) {
	c, v := seededController(t)

	c.TagSelectedOnly(0) // consensus
	c.SearchTextChanged("parliament")
	if got := titles(v.papers); len(got) != 1 || got[0] != "The Part-Time Parliament" {
		t.Fatalf("paper list = %v", got)
	}
	if len(c.Filters()) != 2 {
		t.Fatalf("filters = %v, want tag + keyword", c.Filters())
	}

	c.SearchTextChanged("")
	if got := len(v.papers); got != 2 {
		t.Fatalf("clearing the keyword should restore the tag list, got %d papers", got)
	}
}

func TestNewPaperAppendsUntitled(t *testing.T) {
	c, v := seededController(t)
	before := len(v.papers)

	c.NewPaper()

	if len(v.papers) != before+1 {
		t.Fatalf("paper list has %d entries, want %d", len(v.papers), before+1)
	}
	last := v.papers[len(v.papers)-1]
	if last.ID != 0 || last.Title != paper.UntitledTitle {
		t.Fatalf("appended paper = %+v", last)
	}
	if v.shown.ID != 0 || v.shown.Title != paper.UntitledTitle {
		t.Fatalf("editor shows %+v", v.shown)
	}
	if got := c.Papers(); got[len(got)-1].Title != paper.UntitledTitle {
		t.Fatalf("controller papers not updated")
	}
}

func TestSavePaperAssignsInsertedID(t *testing.T) {
	c, v := seededController(t)

	c.NewPaper()
	v.edited.Title = "Dynamo"
	v.edited.Tags = []string{"distributed"}
	c.SavePaper()

	if len(v.errs) != 0 {
		t.Fatalf("unexpected errors: %v", v.errs)
	}
	if v.shown.ID <= 0 {
		t.Fatalf("saved paper id = %d, want assigned id", v.shown.ID)
	}
	if len(v.papers) != 4 {
		t.Fatalf("paper list has %d entries after save, want 4", len(v.papers))
	}
}

func TestSavePaperRefreshClearsFilters(t *testing.T) {
	c, v := seededController(t)

	c.YearSelectedOnly(0) // 1970
	if len(v.papers) != 1 {
		t.Fatalf("filtered list has %d entries", len(v.papers))
	}
	c.PaperSelectedOnly(0)
	v.edited.Note = "classic"
	c.SavePaper()

	if len(c.Filters()) != 0 {
		t.Fatalf("filters after save = %v, want none", c.Filters())
	}
	if len(v.papers) != 3 {
		t.Fatalf("paper list after save has %d entries, want unfiltered 3", len(v.papers))
	}
}

func TestRemovePaper(t *testing.T) {
	c, v := seededController(t)

	c.AuthorSelectedOnly(0) // Codd
	victim := v.papers[0]
	c.RemovePaper(victim)

	if len(v.errs) != 0 {
		t.Fatalf("unexpected errors: %v", v.errs)
	}
	if len(c.Filters()) != 0 || len(v.papers) != 2 {
		t.Fatalf("after remove: filters=%v papers=%v", c.Filters(), titles(v.papers))
	}
	for _, st := range v.categories[search.Author] {
		if st.Name == "Codd" {
			t.Fatalf("author list still contains removed author")
		}
	}
}

func TestSaveWithoutDatabase(t *testing.T) {
	v := newFakeView()
	c := NewController(context.Background(), nil, nil, v)
	c.NewPaper()
	c.SavePaper()
	c.RemovePaper(paper.New())
	if len(v.errs) != 2 {
		t.Fatalf("expected two errors without a database, got %v", v.errs)
	}
}
