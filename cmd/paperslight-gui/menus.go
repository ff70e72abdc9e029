package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

var (
	shortcutOpen     = &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault}
	shortcutNewPaper = &desktop.CustomShortcut{KeyName: fyne.KeyN, Modifier: fyne.KeyModifierShortcutDefault}
	shortcutSave     = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault}
)

// setupMenus rebuilds the main menu. It runs again after each open so the
// recent list stays current.
func (w *mainWindow) setupMenus() {
	openItem := fyne.NewMenuItem("Open Database File...", w.guard("menu.open", w.showOpenDialog))
	openItem.Shortcut = shortcutOpen

	newDBItem := fyne.NewMenuItem("New Database File...", w.guard("menu.new_db", w.showNewDialog))

	recentItem := fyne.NewMenuItem("Open Recent", nil)
	var recent []*fyne.MenuItem
	for _, path := range w.prefs.RecentDatabases() {
		recent = append(recent, fyne.NewMenuItem(path, w.guard("menu.recent", func() { w.openRecentDatabase(path) })))
	}
	if len(recent) == 0 {
		none := fyne.NewMenuItem("(none)", nil)
		none.Disabled = true
		recent = append(recent, none)
	}
	recentItem.ChildMenu = fyne.NewMenu("", recent...)

	newPaperItem := fyne.NewMenuItem("New Paper", w.guard("menu.new_paper", w.ctrl.NewPaper))
	newPaperItem.Shortcut = shortcutNewPaper

	exportItem := fyne.NewMenuItem("Export Listed Papers...", w.guard("menu.export", w.showExportDialog))

	file := fyne.NewMenu("File",
		openItem,
		newDBItem,
		recentItem,
		fyne.NewMenuItemSeparator(),
		newPaperItem,
		exportItem,
	)
	edit := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Edit Preference", w.guard("menu.preferences", w.showPreferences)),
	)
	help := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", w.guard("menu.about", w.showAbout)),
	)
	w.window.SetMainMenu(fyne.NewMainMenu(file, edit, help))

	c := w.window.Canvas()
	c.RemoveShortcut(shortcutOpen)
	c.RemoveShortcut(shortcutNewPaper)
	c.RemoveShortcut(shortcutSave)
	c.AddShortcut(shortcutOpen, func(fyne.Shortcut) { w.guard("shortcut.open", w.showOpenDialog)() })
	c.AddShortcut(shortcutNewPaper, func(fyne.Shortcut) { w.guard("shortcut.new_paper", w.ctrl.NewPaper)() })
	c.AddShortcut(shortcutSave, func(fyne.Shortcut) { w.guard("shortcut.save", w.ctrl.SavePaper)() })
}
