package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oukeidos/paperslight/internal/cleanup"
	"github.com/oukeidos/paperslight/internal/paper"
	"github.com/oukeidos/paperslight/internal/prompt"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if cleanupErr := cleanup.RunAll(); cleanupErr != nil {
		t.Fatalf("cleanup: %v", cleanupErr)
	}
	return buf.String(), err
}

func newTestDB(t *testing.T) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "papers.db")
	for _, args := range [][]string{
		{"add", "--title", "A Relational Model of Data", "--year", "1970", "--booktitle", "CACM", "-a", "Codd", "--tag", "db"},
		{"add", "--title", "Paxos Made Simple", "--year", "2001", "--booktitle", "SIGACT News", "-a", "Lamport", "--tag", "consensus, distributed"},
		{"add", "--title", "The Part-Time Parliament", "--year", "1998", "--booktitle", "TOCS", "-a", "Lamport", "--tag", "consensus"},
	} {
		if out, err := executeCommand(t, append(args, "--db", db)...); err != nil {
			t.Fatalf("seed %v: %v\n%s", args, err, out)
		}
	}
	return db
}

func withConfirmer(t *testing.T, input string, interactive bool) {
	t.Helper()
	prev := newConfirmer
	newConfirmer = func() prompt.Confirmer {
		return prompt.Confirmer{
			In:            strings.NewReader(input),
			IsInteractive: func() bool { return interactive },
		}
	}
	t.Cleanup(func() { newConfirmer = prev })
}

func TestResolveDBPath(t *testing.T) {
	prev := getenv
	t.Cleanup(func() { getenv = prev })

	getenv = func(string) string { return "/env/papers.db" }
	if got, err := resolveDBPath(" /flag/papers.db "); err != nil || got != "/flag/papers.db" {
		t.Fatalf("resolveDBPath(flag) = %q, %v", got, err)
	}
	if got, err := resolveDBPath(""); err != nil || got != "/env/papers.db" {
		t.Fatalf("resolveDBPath(env) = %q, %v", got, err)
	}
	getenv = func(string) string { return "" }
	if _, err := resolveDBPath(""); err == nil {
		t.Fatalf("expected error without flag or env")
	}
}

func TestLoadDotEnv(t *testing.T) {
	prev := dotEnvFile
	t.Cleanup(func() { dotEnvFile = prev })

	dotEnvFile = filepath.Join(t.TempDir(), "missing.env")
	if err := loadDotEnv(); err != nil {
		t.Fatalf("missing .env must be ignored, got %v", err)
	}

	dotEnvFile = filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(dotEnvFile, []byte("PAPERSLIGHT_TEST_DOTENV=from-file\n"), 0600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("PAPERSLIGHT_TEST_DOTENV", "")
	os.Unsetenv("PAPERSLIGHT_TEST_DOTENV")
	if err := loadDotEnv(); err != nil {
		t.Fatalf("loadDotEnv() error: %v", err)
	}
	if got := os.Getenv("PAPERSLIGHT_TEST_DOTENV"); got != "from-file" {
		t.Fatalf("PAPERSLIGHT_TEST_DOTENV = %q, want from-file", got)
	}
}

func TestRootWithoutCommandShowsHelp(t *testing.T) {
	out, err := executeCommand(t)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, sub := range []string{"stats", "list", "export", "serve", "admin"} {
		if !strings.Contains(out, sub) {
			t.Fatalf("help output missing %q:\n%s", sub, out)
		}
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := executeCommand(t, "--version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "paperslight ") {
		t.Fatalf("version output = %q", out)
	}
}

func TestListFilters(t *testing.T) {
	db := newTestDB(t)

	cases := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{name: "all", want: []string{"Paxos Made Simple", "The Part-Time Parliament", "A Relational Model of Data"}},
		{name: "author", args: []string{"--author", "Lamport"}, want: []string{"Paxos", "Parliament"}, notWant: []string{"Relational"}},
		{name: "two years", args: []string{"--year", "1970", "--year", "2001"}, want: []string{"Paxos", "Relational"}, notWant: []string{"Parliament"}},
		{name: "tag and keyword", args: []string{"--tag", "consensus", "-k", "paxos"}, want: []string{"Paxos"}, notWant: []string{"Parliament"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := executeCommand(t, append([]string{"list", "--db", db}, tc.args...)...)
			if err != nil {
				t.Fatalf("list failed: %v\n%s", err, out)
			}
			for _, w := range tc.want {
				if !strings.Contains(out, w) {
					t.Fatalf("output missing %q:\n%s", w, out)
				}
			}
			for _, w := range tc.notWant {
				if strings.Contains(out, w) {
					t.Fatalf("output should not contain %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	out, err := executeCommand(t, "list", "--db", db)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	paxos := strings.Index(out, "Paxos")
	codd := strings.Index(out, "Relational")
	if paxos < 0 || codd < 0 || paxos > codd {
		t.Fatalf("expected 2001 paper before 1970 paper:\n%s", out)
	}
}

func TestStats(t *testing.T) {
	db := newTestDB(t)

	out, err := executeCommand(t, "stats", "tag", "--by-count", "--db", db)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || !strings.HasSuffix(lines[0], "consensus") || !strings.HasPrefix(strings.TrimSpace(lines[0]), "2") {
		t.Fatalf("tag stats by count =\n%s", out)
	}

	if _, err := executeCommand(t, "stats", "keyword", "--db", db); err == nil {
		t.Fatalf("expected error for keyword stats")
	}
}

func TestShowAndMissing(t *testing.T) {
	db := newTestDB(t)

	out, err := executeCommand(t, "show", "2", "--db", db)
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out, "Title:     Paxos Made Simple") || !strings.Contains(out, "Tags:      consensus, distributed") {
		t.Fatalf("show output =\n%s", out)
	}

	if _, err := executeCommand(t, "show", "99", "--db", db); err == nil {
		t.Fatalf("expected not-found error")
	}
	if _, err := executeCommand(t, "show", "abc", "--db", db); err == nil {
		t.Fatalf("expected invalid id error")
	}
}

func TestAddRequiresTitle(t *testing.T) {
	db := filepath.Join(t.TempDir(), "papers.db")
	out, err := executeCommand(t, "add", "--year", "2001", "--db", db)
	if err == nil {
		t.Fatalf("expected error without --title")
	}
	if !strings.Contains(out, "title") {
		t.Fatalf("error output should mention title: %s", out)
	}
	if _, err := executeCommand(t, "add", "--title", "x", "--type", "blogpost", "--db", db); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestRemove(t *testing.T) {
	db := newTestDB(t)

	withConfirmer(t, "", false)
	if _, err := executeCommand(t, "remove", "1", "--db", db); err == nil {
		t.Fatalf("expected non-interactive remove without -y to fail")
	}

	withConfirmer(t, "n\n", true)
	out, err := executeCommand(t, "remove", "1", "--db", db)
	if err != nil || !strings.Contains(out, "Cancelled.") {
		t.Fatalf("declined remove: out=%q err=%v", out, err)
	}

	out, err = executeCommand(t, "rm", "1", "-y", "--db", db)
	if err != nil || !strings.Contains(out, "Removed paper 1.") {
		t.Fatalf("forced remove: out=%q err=%v", out, err)
	}
	out, _ = executeCommand(t, "stats", "author", "--db", db)
	if strings.Contains(out, "Codd") {
		t.Fatalf("removed paper's author still listed:\n%s", out)
	}
}

func TestExport(t *testing.T) {
	db := newTestDB(t)
	dest := filepath.Join(t.TempDir(), "papers.json")

	if out, err := executeCommand(t, "export", dest, "--db", db); err != nil {
		t.Fatalf("export failed: %v\n%s", err, out)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var papers []paper.Paper
	if err := json.Unmarshal(data, &papers); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if len(papers) != 3 {
		t.Fatalf("exported %d papers, want 3", len(papers))
	}

	withConfirmer(t, "", false)
	if _, err := executeCommand(t, "export", dest, "--db", db); err == nil {
		t.Fatalf("expected overwrite refusal without -y")
	}
	if _, err := executeCommand(t, "export", dest, "-y", "--db", db); err != nil {
		t.Fatalf("forced export failed: %v", err)
	}
}

func TestAdminStatus(t *testing.T) {
	prev := adminHash
	t.Cleanup(func() { adminHash = prev })

	adminHash = func(bool) (string, string) { return "$argon2id$secret", "Keychain" }
	out, err := executeCommand(t, "admin", "status")
	if err != nil {
		t.Fatalf("admin status failed: %v", err)
	}
	if !strings.Contains(out, "source=Keychain") || strings.Contains(out, "secret") {
		t.Fatalf("admin status output = %q", out)
	}

	adminHash = func(bool) (string, string) { return "", "" }
	out, _ = executeCommand(t, "admin", "status")
	if !strings.Contains(out, "Not Set") {
		t.Fatalf("admin status output = %q", out)
	}
}

func TestAdminSetPassword(t *testing.T) {
	prevTerm, prevPrompt, prevSave := isTerminal, promptPassword, saveAdminPass
	t.Cleanup(func() { isTerminal, promptPassword, saveAdminPass = prevTerm, prevPrompt, prevSave })

	var saved string
	saveAdminPass = func(pw string) error { saved = pw; return nil }

	isTerminal = func(int) bool { return false }
	if _, err := executeCommand(t, "admin", "set-password"); err == nil {
		t.Fatalf("expected error in non-interactive shell")
	}

	isTerminal = func(int) bool { return true }
	answers := []string{"hunter2", "hunter3"}
	promptPassword = func(io.Writer, string) (string, error) {
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	if _, err := executeCommand(t, "admin", "set-password"); err == nil || saved != "" {
		t.Fatalf("mismatched passwords must not be saved (err=%v saved=%q)", err, saved)
	}

	promptPassword = func(io.Writer, string) (string, error) { return "hunter2", nil }
	if _, err := executeCommand(t, "admin", "set-password"); err != nil {
		t.Fatalf("set-password failed: %v", err)
	}
	if saved != "hunter2" {
		t.Fatalf("saved password = %q", saved)
	}

	promptPassword = func(io.Writer, string) (string, error) { return "", errors.New("tty closed") }
	if _, err := executeCommand(t, "admin", "set-password"); err == nil {
		t.Fatalf("expected prompt error to surface")
	}
}
