package main

import (
	"net/url"

	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/paperslight/internal/version"
)

const projectURL = "https://github.com/oukeidos/paperslight"

func (w *mainWindow) showAbout() {
	link, _ := url.Parse(projectURL)
	content := container.NewVBox(
		widget.NewLabel("Keep track of the papers you read, by year, venue, author and tag."),
		widget.NewLabel(version.Info()),
		widget.NewHyperlink(projectURL, link),
	)
	dialog.ShowCustom("About "+appTitle, "Close", content, w.window)
}
