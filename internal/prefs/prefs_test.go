package prefs

import (
	"fmt"
	"path/filepath"
	"reflect"
	"testing"

	"fyne.io/fyne/v2/test"
)

type mapStore struct {
	strings map[string]string
	bools   map[string]bool
}

func newMapStore() *mapStore {
	return &mapStore{strings: map[string]string{}, bools: map[string]bool{}}
}

func (m *mapStore) String(key string) string       { return m.strings[key] }
func (m *mapStore) SetString(key, value string)    { m.strings[key] = value }
func (m *mapStore) SetBool(key string, value bool) { m.bools[key] = value }
func (m *mapStore) BoolWithFallback(key string, fallback bool) bool {
	if v, ok := m.bools[key]; ok {
		return v
	}
	return fallback
}

func TestDatabaseFilePath(t *testing.T) {
	m := NewManager(newMapStore())
	if got := m.DatabaseFilePath(); got != "" {
		t.Fatalf("default DatabaseFilePath() = %q, want empty", got)
	}
	m.SetDatabaseFilePath("  /tmp/lib/../papers.db ")
	if got, want := m.DatabaseFilePath(), filepath.Clean("/tmp/papers.db"); got != want {
		t.Fatalf("DatabaseFilePath() = %q, want %q", got, want)
	}
	m.SetDatabaseFilePath("")
	if got := m.DatabaseFilePath(); got != "" {
		t.Fatalf("cleared DatabaseFilePath() = %q", got)
	}
}

func TestPushRecentDatabase(t *testing.T) {
	m := NewManager(newMapStore())
	for i := 0; i < MaxRecentDatabases+2; i++ {
		m.PushRecentDatabase(fmt.Sprintf("/tmp/%d.db", i))
	}
	m.PushRecentDatabase("/tmp/3.db")

	got := m.RecentDatabases()
	want := []string{"/tmp/3.db", "/tmp/6.db", "/tmp/5.db", "/tmp/4.db", "/tmp/2.db"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("RecentDatabases() = %v, want %v", got, want)
	}
}

func TestRemoveRecentDatabase(t *testing.T) {
	m := NewManager(newMapStore())
	m.PushRecentDatabase("/tmp/a.db")
	m.PushRecentDatabase("/tmp/b.db")
	m.RemoveRecentDatabase(" /tmp/a.db ")
	m.RemoveRecentDatabase("/tmp/missing.db")

	if got, want := m.RecentDatabases(), []string{"/tmp/b.db"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("RecentDatabases() = %v, want %v", got, want)
	}
	m.RemoveRecentDatabase("/tmp/b.db")
	if got := m.RecentDatabases(); got != nil {
		t.Fatalf("RecentDatabases() = %v, want nil", got)
	}
}

func TestNilManager(t *testing.T) {
	var m *Manager
	m.SetDatabaseFilePath("/tmp/x.db")
	if m.DatabaseFilePath() != "" || m.RecentDatabases() != nil || m.DebugLogging() {
		t.Fatalf("nil manager must be inert")
	}
}

func TestFynePreferencesBackend(t *testing.T) {
	a := test.NewTempApp(t)
	m := NewManager(a.Preferences())

	m.SetDatabaseFilePath("/tmp/papers.db")
	m.SetDebugLogging(true)

	if got := a.Preferences().String(keyDatabaseFilePath); got != filepath.Clean("/tmp/papers.db") {
		t.Fatalf("stored path = %q", got)
	}
	if !m.DebugLogging() {
		t.Fatalf("expected debug logging to persist")
	}
}
