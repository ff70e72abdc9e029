package main

import (
	"log/slog"

	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/paperslight/internal/logger"
)

// showPreferences opens the modal preferences form.
func (w *mainWindow) showPreferences() {
	dbEntry := widget.NewEntry()
	dbEntry.SetText(w.prefs.DatabaseFilePath())
	dbEntry.SetPlaceHolder("Database opened at startup")
	useCurrent := widget.NewButton("Use Current", func() {
		dbEntry.SetText(w.ctrl.DatabasePath())
	})
	if w.ctrl.DatabasePath() == "" {
		useCurrent.Disable()
	}
	debugCheck := widget.NewCheck("Debug logging", nil)
	debugCheck.SetChecked(w.prefs.DebugLogging())

	items := []*widget.FormItem{
		widget.NewFormItem("Default Database", container.NewBorder(nil, nil, nil, useCurrent, dbEntry)),
		widget.NewFormItem("", debugCheck),
	}
	d := dialog.NewForm("Preferences", "Save", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		w.applyPreferences(dbEntry.Text, debugCheck.Checked)
	}, w.window)
	d.Resize(d.MinSize().AddWidthHeight(240, 0))
	d.Show()
}

func (w *mainWindow) applyPreferences(dbPath string, debug bool) {
	w.prefs.SetDatabaseFilePath(dbPath)
	w.prefs.SetDebugLogging(debug)
	logger.Init(logLevel(debug), nil)
	logger.Info("Preferences saved", "default_db", w.prefs.DatabaseFilePath(), "debug", debug)
	w.SetStatus("Preferences saved")
}

func logLevel(debug bool) slog.Level {
	if debug {
		return logger.LevelDebug
	}
	return logger.LevelInfo
}
