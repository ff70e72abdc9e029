package main

import (
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/paperslight/internal/paper"
)

// paperEditor is the paper info panel. It keeps the loaded paper so fields it
// does not show (the id) survive an edit.
type paperEditor struct {
	current paper.Paper

	typ       *widget.Select
	title     *widget.Entry
	year      *widget.Entry
	bookTitle *widget.Entry
	authors   *widget.Entry
	tags      *widget.Entry
	pages     *widget.Entry
	publisher *widget.Entry
	url       *widget.Entry
	note      *widget.Entry
	idLabel   *widget.Label

	saveBtn   *widget.Button
	removeBtn *widget.Button
	content   fyne.CanvasObject
}

func newPaperEditor(onSave, onRemove func()) *paperEditor {
	e := &paperEditor{
		typ:       widget.NewSelect(paper.TypeNames(), nil),
		title:     widget.NewEntry(),
		year:      widget.NewEntry(),
		bookTitle: widget.NewEntry(),
		authors:   widget.NewEntry(),
		tags:      widget.NewEntry(),
		pages:     widget.NewEntry(),
		publisher: widget.NewEntry(),
		url:       widget.NewEntry(),
		note:      widget.NewMultiLineEntry(),
		idLabel:   widget.NewLabel(""),
	}
	e.authors.SetPlaceHolder("Last, First; Last, First")
	e.tags.SetPlaceHolder("tag, tag")
	e.note.SetMinRowsVisible(4)

	e.saveBtn = widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), onSave)
	e.saveBtn.Importance = widget.HighImportance
	e.removeBtn = widget.NewButtonWithIcon("Remove", theme.DeleteIcon(), onRemove)

	form := widget.NewForm(
		widget.NewFormItem("Type", e.typ),
		widget.NewFormItem("Title", e.title),
		widget.NewFormItem("Year", e.year),
		widget.NewFormItem("Book Title", e.bookTitle),
		widget.NewFormItem("Authors", e.authors),
		widget.NewFormItem("Tags", e.tags),
		widget.NewFormItem("Pages", e.pages),
		widget.NewFormItem("Publisher", e.publisher),
		widget.NewFormItem("URL", e.url),
		widget.NewFormItem("Note", e.note),
	)
	buttons := container.NewHBox(e.idLabel, layout.NewSpacer(), e.removeBtn, e.saveBtn)
	e.content = container.NewVBox(form, buttons)

	e.Load(paper.New())
	return e
}

// Load shows p in the form.
func (e *paperEditor) Load(p paper.Paper) {
	e.current = p
	typ := p.Type
	if typ == "" {
		typ = paper.DefaultType
	}
	e.typ.SetSelected(typ)
	e.title.SetText(p.Title)
	e.year.SetText(p.YearString())
	e.bookTitle.SetText(p.BookTitle)
	e.authors.SetText(strings.Join(p.Authors, "; "))
	e.tags.SetText(strings.Join(p.Tags, ", "))
	e.pages.SetText(p.Pages)
	e.publisher.SetText(p.Publisher)
	e.url.SetText(p.URL)
	e.note.SetText(p.Note)

	if p.Saved() {
		e.idLabel.SetText("#" + strconv.FormatInt(p.ID, 10))
	} else {
		e.idLabel.SetText("new")
	}
}

// Paper returns the loaded paper with the form's edits applied. A year that
// is not a number is dropped.
func (e *paperEditor) Paper() paper.Paper {
	p := e.current
	p.Type = e.typ.Selected
	p.Title = e.title.Text
	p.Year, _ = strconv.Atoi(strings.TrimSpace(e.year.Text))
	p.BookTitle = e.bookTitle.Text
	p.Authors = paper.SplitList(e.authors.Text)
	p.Tags = paper.SplitList(e.tags.Text)
	p.Pages = e.pages.Text
	p.Publisher = e.publisher.Text
	p.URL = e.url.Text
	p.Note = e.note.Text
	return p.Normalize()
}
