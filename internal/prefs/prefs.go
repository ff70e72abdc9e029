// Package prefs persists the user's application settings.
package prefs

import (
	"path/filepath"
	"strings"
)

const (
	keyDatabaseFilePath = "DatabaseFilePath"
	keyRecentDatabases  = "RecentDatabases"
	keyDebugLogging     = "DebugLogging"

	// MaxRecentDatabases bounds the File > Open Recent list.
	MaxRecentDatabases = 5
)

// Store is the subset of fyne.Preferences the manager needs.
type Store interface {
	String(key string) string
	SetString(key, value string)
	BoolWithFallback(key string, fallback bool) bool
	SetBool(key string, value bool)
}

type Manager struct {
	store Store
}

func NewManager(s Store) *Manager {
	return &Manager{store: s}
}

// DatabaseFilePath is the database opened at startup, or "".
func (m *Manager) DatabaseFilePath() string {
	if m == nil || m.store == nil {
		return ""
	}
	return strings.TrimSpace(m.store.String(keyDatabaseFilePath))
}

func (m *Manager) SetDatabaseFilePath(path string) {
	if m == nil || m.store == nil {
		return
	}
	path = strings.TrimSpace(path)
	if path != "" {
		path = filepath.Clean(path)
	}
	m.store.SetString(keyDatabaseFilePath, path)
}

// RecentDatabases returns recently opened files, most recent first.
func (m *Manager) RecentDatabases() []string {
	if m == nil || m.store == nil {
		return nil
	}
	raw := m.store.String(keyRecentDatabases)
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, "\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// PushRecentDatabase moves path to the front of the recent list.
func (m *Manager) PushRecentDatabase(path string) {
	if m == nil || m.store == nil {
		return
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	path = filepath.Clean(path)
	list := []string{path}
	for _, p := range m.RecentDatabases() {
		if p != path && len(list) < MaxRecentDatabases {
			list = append(list, p)
		}
	}
	m.store.SetString(keyRecentDatabases, strings.Join(list, "\n"))
}

// RemoveRecentDatabase drops path from the recent list.
func (m *Manager) RemoveRecentDatabase(path string) {
	if m == nil || m.store == nil {
		return
	}
	path = filepath.Clean(strings.TrimSpace(path))
	var list []string
	for _, p := range m.RecentDatabases() {
		if p != path {
			list = append(list, p)
		}
	}
	m.store.SetString(keyRecentDatabases, strings.Join(list, "\n"))
}

func (m *Manager) DebugLogging() bool {
	if m == nil || m.store == nil {
		return false
	}
	return m.store.BoolWithFallback(keyDebugLogging, false)
}

func (m *Manager) SetDebugLogging(on bool) {
	if m == nil || m.store == nil {
		return
	}
	m.store.SetBool(keyDebugLogging, on)
}
