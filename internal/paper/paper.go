// Package paper defines the bibliographic record managed by Papers Light.
package paper

import (
	"strconv"
	"strings"
)

// UntitledTitle is the title given to papers created in the editor.
const UntitledTitle = "Untitled"

// Paper is a single bibliographic record. ID 0 means the paper has not been
// saved yet.
type Paper struct {
	ID        int64    `json:"id"`
	Type      string   `json:"type"`
	Title     string   `json:"title"`
	Year      int      `json:"year,omitempty"`
	BookTitle string   `json:"booktitle,omitempty"`
	Authors   []string `json:"authors,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Pages     string   `json:"pages,omitempty"`
	Publisher string   `json:"publisher,omitempty"`
	URL       string   `json:"url,omitempty"`
	Note      string   `json:"note,omitempty"`
}

// New returns an unsaved paper with the default title.
func New() Paper {
	return Paper{ID: 0, Type: DefaultType, Title: UntitledTitle}
}

// Saved reports whether the paper has a database id.
func (p Paper) Saved() bool {
	return p.ID > 0
}

// YearString returns the year as text, or "" when unknown.
func (p Paper) YearString() string {
	if p.Year <= 0 {
		return ""
	}
	return strconv.Itoa(p.Year)
}

// AuthorLine joins the authors for single-line display.
func (p Paper) AuthorLine() string {
	return strings.Join(p.Authors, ", ")
}

// Normalize trims every field and drops empty or duplicate authors and tags.
// Author order is kept; tags are kept in first-seen order.
func (p Paper) Normalize() Paper {
	p.Type = strings.ToLower(strings.TrimSpace(p.Type))
	p.Title = strings.TrimSpace(p.Title)
	p.BookTitle = strings.TrimSpace(p.BookTitle)
	p.Pages = strings.TrimSpace(p.Pages)
	p.Publisher = strings.TrimSpace(p.Publisher)
	p.URL = strings.TrimSpace(p.URL)
	p.Note = strings.TrimSpace(p.Note)
	p.Authors = uniqueTrimmed(p.Authors)
	p.Tags = uniqueTrimmed(p.Tags)
	if p.Year < 0 {
		p.Year = 0
	}
	return p
}

// SplitList splits user input such as "Knuth; Lamport" or "db, sql" into
// entries. Semicolons take precedence so that "Last, First" names survive.
func SplitList(s string) []string {
	sep := ","
	if strings.Contains(s, ";") {
		sep = ";"
	}
	return uniqueTrimmed(strings.Split(s, sep))
}

func uniqueTrimmed(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
