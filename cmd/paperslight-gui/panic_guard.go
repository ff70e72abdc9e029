package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"github.com/oukeidos/paperslight/internal/logger"
)

func withPanicGuard(scope string, onPanic func(any), fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Recovered panic", "scope", scope, "panic", fmt.Sprint(r))
			if onPanic != nil {
				onPanic(r)
			}
		}
	}()
	fn()
}

func safeGo(scope string, fn func()) {
	go func() {
		withPanicGuard(scope, nil, fn)
	}()
}

func safeDo(scope string, fn func()) {
	withPanicGuard(scope+".dispatch", nil, func() {
		fyne.Do(func() {
			withPanicGuard(scope, nil, fn)
		})
	})
}

// guard wraps a widget or menu callback so a panic in one handler is logged
// and reported instead of taking the window down.
func (w *mainWindow) guard(scope string, fn func()) func() {
	return func() {
		withPanicGuard(scope, func(r any) {
			w.handleRecoveredPanic(scope, r)
		}, fn)
	}
}

func (w *mainWindow) handleRecoveredPanic(scope string, _ any) {
	if w == nil || w.window == nil {
		return
	}
	w.panicNoticeOnce.Do(func() {
		safeDo("panic.notice", func() {
			dialog.ShowInformation(
				"Unexpected Error",
				"An internal error occurred in "+scope+". Your last change may not have been saved. If this repeats, restart the app.",
				w.window,
			)
		})
	})
}
