package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/paperslight/internal/files"
	"github.com/oukeidos/paperslight/internal/library"
	"github.com/oukeidos/paperslight/internal/logger"
	"github.com/oukeidos/paperslight/internal/paper"
	"github.com/oukeidos/paperslight/internal/prefs"
	"github.com/oukeidos/paperslight/internal/search"
)

const (
	appTitle        = "Papers Light"
	paperLabelWidth = 72
)

var databaseExtensions = []string{".db", ".sqlite", ".sqlite3"}

type categoryList struct {
	title string
	stats []paper.Stat
	list  *widget.List
}

// mainWindow is the fyne rendition of the library window. It implements
// library.View; every event is forwarded to the controller.
type mainWindow struct {
	window fyne.Window
	ctrl   *library.Controller
	prefs  *prefs.Manager

	categories map[search.Kind]*categoryList
	papers     []paper.Paper
	paperList  *widget.List
	searchBox  *widget.Entry
	editor     *paperEditor
	status     *widget.Label

	muteSearch      bool
	panicNoticeOnce sync.Once
}

var _ library.View = (*mainWindow)(nil)

func newMainWindow(w fyne.Window, p *prefs.Manager, open library.Opener) *mainWindow {
	mw := &mainWindow{window: w, prefs: p}
	mw.ctrl = library.NewController(context.Background(), open, p, mw)
	mw.setupUI()
	mw.setupMenus()
	return mw
}

func (w *mainWindow) setupUI() {
	w.categories = map[search.Kind]*categoryList{
		search.Year:      w.newCategoryList("Year", w.ctrl.YearSelectedOnly),
		search.BookTitle: w.newCategoryList("Book Title", w.ctrl.BookTitleSelectedOnly),
		search.Author:    w.newCategoryList("Author", w.ctrl.AuthorSelectedOnly),
		search.Tag:       w.newCategoryList("Tag", w.ctrl.TagSelectedOnly),
	}

	w.paperList = widget.NewList(
		func() int { return len(w.papers) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(w.papers) {
				obj.(*widget.Label).SetText(w.papers[id].ListLabel(paperLabelWidth))
			}
		},
	)
	w.paperList.OnSelected = func(id widget.ListItemID) {
		w.guard("papers.select", func() { w.ctrl.PaperSelectedOnly(id) })()
	}

	w.searchBox = widget.NewEntry()
	w.searchBox.SetPlaceHolder("Search titles, venues and authors")
	w.searchBox.OnChanged = func(text string) {
		if w.muteSearch {
			return
		}
		w.guard("search.changed", func() { w.ctrl.SearchTextChanged(text) })()
	}

	w.editor = newPaperEditor(
		w.guard("editor.save", w.ctrl.SavePaper),
		w.guard("editor.remove", w.confirmRemove),
	)
	w.status = widget.NewLabel("No database open")

	categoryPanels := container.NewGridWithRows(4)
	for _, kind := range []search.Kind{search.Year, search.BookTitle, search.Author, search.Tag} {
		c := w.categories[kind]
		header := widget.NewLabelWithStyle(c.title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
		categoryPanels.Add(container.NewBorder(header, nil, nil, nil, c.list))
	}

	middle := container.NewBorder(w.searchBox, nil, nil, nil, w.paperList)
	right := container.NewVScroll(w.editor.content)

	inner := container.NewHSplit(middle, right)
	inner.SetOffset(0.55)
	outer := container.NewHSplit(categoryPanels, inner)
	outer.SetOffset(0.22)

	w.window.SetContent(container.NewBorder(nil, w.status, nil, nil, outer))
	w.updateTitle()
}

func (w *mainWindow) newCategoryList(title string, selected func(int)) *categoryList {
	c := &categoryList{title: title}
	c.list = widget.NewList(
		func() int { return len(c.stats) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(c.stats) {
				obj.(*widget.Label).SetText(paper.Truncate(c.stats[id].Label(), 40))
			}
		},
	)
	c.list.OnSelected = func(id widget.ListItemID) {
		w.guard("category.select."+title, func() {
			w.unselectOtherCategories(c)
			w.clearSearch()
			selected(id)
		})()
	}
	return c
}

func (w *mainWindow) unselectOtherCategories(keep *categoryList) {
	for _, c := range w.categories {
		if c != keep {
			c.list.UnselectAll()
		}
	}
}

func (w *mainWindow) clearSearch() {
	if w.searchBox.Text == "" {
		return
	}
	w.muteSearch = true
	w.searchBox.SetText("")
	w.muteSearch = false
}

func (w *mainWindow) updateTitle() {
	if p := w.ctrl.DatabasePath(); p != "" {
		w.window.SetTitle(appTitle + " - " + filepath.Base(p))
		return
	}
	w.window.SetTitle(appTitle)
}

func (w *mainWindow) openDatabase(path string) {
	w.ctrl.OpenDatabase(path)
	w.updateTitle()
	w.setupMenus()
}

// View implementation.

func (w *mainWindow) SetCategoryItems(kind search.Kind, stats []paper.Stat) {
	c, ok := w.categories[kind]
	if !ok {
		return
	}
	c.stats = stats
	c.list.UnselectAll()
	c.list.Refresh()
	w.clearSearch()
}

func (w *mainWindow) SetPapers(papers []paper.Paper) {
	w.papers = papers
	w.paperList.UnselectAll()
	w.paperList.Refresh()
}

func (w *mainWindow) AppendPaper(p paper.Paper) {
	w.papers = append(w.papers, p)
	w.paperList.Refresh()
	w.paperList.ScrollToBottom()
}

func (w *mainWindow) ShowPaper(p paper.Paper) {
	w.editor.Load(p)
}

func (w *mainWindow) EditedPaper() paper.Paper {
	return w.editor.Paper()
}

func (w *mainWindow) ShowError(err error) {
	dialog.ShowError(err, w.window)
}

func (w *mainWindow) SetStatus(msg string) {
	w.status.SetText(msg)
}

func (w *mainWindow) confirmRemove() {
	p := w.editor.Paper()
	dialog.ShowConfirm("Remove Paper", fmt.Sprintf("Remove %q from the library?", p.Title), func(ok bool) {
		if ok {
			w.guard("editor.remove.confirmed", func() { w.ctrl.RemovePaper(p) })()
		}
	}, w.window)
}

func (w *mainWindow) showOpenDialog() {
	fd := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			w.ShowError(err)
			return
		}
		if r == nil {
			return
		}
		path := r.URI().Path()
		r.Close()
		w.guard("file.open", func() { w.openDatabase(path) })()
	}, w.window)
	fd.SetFilter(storage.NewExtensionFileFilter(databaseExtensions))
	w.setDialogLocation(fd)
	fd.Show()
}

// showNewDialog asks for a folder and a file name, then opens that new file
// as an empty library. Existing files are refused so nothing is truncated.
func (w *mainWindow) showNewDialog() {
	fd := dialog.NewFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil {
			w.ShowError(err)
			return
		}
		if dir == nil {
			return
		}
		name := widget.NewEntry()
		name.SetText("papers.db")
		items := []*widget.FormItem{widget.NewFormItem("File Name", name)}
		dialog.ShowForm("New Database File", "Create", "Cancel", items, func(ok bool) {
			if !ok || strings.TrimSpace(name.Text) == "" {
				return
			}
			path := filepath.Join(dir.Path(), filepath.Base(strings.TrimSpace(name.Text)))
			w.guard("file.new", func() { w.createDatabase(path) })()
		}, w.window)
	}, w.window)
	w.setDialogLocation(fd)
	fd.Show()
}

func (w *mainWindow) createDatabase(path string) {
	exists, err := files.Exists(path)
	if err != nil {
		w.ShowError(err)
		return
	}
	if exists {
		w.ShowError(fmt.Errorf("%s already exists; use Open Database File instead", filepath.Base(path)))
		return
	}
	w.openDatabase(path)
}

func (w *mainWindow) showExportDialog() {
	papers := w.ctrl.Papers()
	fd := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			w.ShowError(err)
			return
		}
		if wc == nil {
			return
		}
		safeGo("file.export", func() {
			err := writePapers(wc, papers)
			safeDo("file.export.done", func() {
				if err != nil {
					logger.Error("Export failed", "path", wc.URI().Path(), "error", err)
					w.ShowError(err)
					return
				}
				w.SetStatus(fmt.Sprintf("Exported %d papers to %s", len(papers), wc.URI().Path()))
			})
		})
	}, w.window)
	fd.SetFileName("papers.json")
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	fd.Show()
}

func writePapers(wc io.WriteCloser, papers []paper.Paper) error {
	enc := json.NewEncoder(wc)
	enc.SetIndent("", "  ")
	if err := enc.Encode(papers); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}

type locatable interface {
	SetLocation(fyne.ListableURI)
}

func (w *mainWindow) setDialogLocation(fd locatable) {
	current := w.ctrl.DatabasePath()
	if current == "" {
		current = w.prefs.DatabaseFilePath()
	}
	if current == "" {
		return
	}
	if lister, err := storage.ListerForURI(storage.NewFileURI(filepath.Dir(current))); err == nil {
		fd.SetLocation(lister)
	}
}

// openRecentDatabase reopens a remembered path without recreating it when
// the file has been moved or deleted.
func (w *mainWindow) openRecentDatabase(path string) {
	w.ctrl.OpenExistingDatabase(path)
	w.updateTitle()
	w.setupMenus()
}

func (w *mainWindow) openDefaultDatabase() {
	w.ctrl.OpenDefaultDatabase()
	w.updateTitle()
	w.setupMenus()
}
