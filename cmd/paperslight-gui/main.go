package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"

	"github.com/oukeidos/paperslight/internal/library"
	"github.com/oukeidos/paperslight/internal/logger"
	"github.com/oukeidos/paperslight/internal/prefs"
)

const appID = "com.oukeidos.paperslight"

func main() {
	logger.Init(logger.LevelInfo, nil)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Unrecovered GUI panic", "scope", "main", "panic", fmt.Sprint(r))
			os.Exit(1)
		}
	}()

	a := app.NewWithID(appID)
	a.SetIcon(theme.StorageIcon())
	p := prefs.NewManager(a.Preferences())
	logger.Init(logLevel(p.DebugLogging()), nil)

	w := a.NewWindow(appTitle)
	w.SetMaster()
	w.Resize(fyne.NewSize(1200, 720))
	w.CenterOnScreen()

	mw := newMainWindow(w, p, library.OpenStore)
	w.SetCloseIntercept(func() {
		if err := mw.ctrl.Close(); err != nil {
			logger.Warn("Failed to close database", "error", err)
		}
		w.SetCloseIntercept(nil)
		w.Close()
	})
	mw.guard("startup.open", mw.openDefaultDatabase)()

	w.ShowAndRun()
}
