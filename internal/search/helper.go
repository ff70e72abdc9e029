// Package search turns the category filters picked in the UI into a paper
// query.
package search

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

type Kind int

const (
	Year Kind = iota
	BookTitle
	Author
	Tag
	Keyword
)

var kindNames = [...]string{
	Year:      "year",
	BookTitle: "booktitle",
	Author:    "author",
	Tag:       "tag",
	Keyword:   "keyword",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind maps a name such as "author" back to its Kind.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// Filter is one (kind, value) constraint on the paper list.
type Filter struct {
	Kind  Kind
	Value string
}

// Query is a rendered SELECT returning paper ids, with its bind arguments.
type Query struct {
	SQL  string
	Args []any
}

// Helper accumulates filters. The zero value is ready to use and matches
// every paper.
type Helper struct {
	filters []Filter
}

func (h *Helper) Clear() {
	h.filters = nil
}

func (h *Helper) AddFilter(f Filter) {
	h.filters = append(h.filters, f)
}

// RemoveKind drops every filter of kind k.
func (h *Helper) RemoveKind(k Kind) {
	kept := h.filters[:0]
	for _, f := range h.filters {
		if f.Kind != k {
			kept = append(kept, f)
		}
	}
	h.filters = kept
}

// Filters returns a copy of the active filters in insertion order.
func (h *Helper) Filters() []Filter {
	out := make([]Filter, len(h.filters))
	copy(out, h.filters)
	return out
}

func (h *Helper) Len() int {
	return len(h.filters)
}

const (
	selectIDs = "SELECT papers.id FROM papers"
	orderIDs  = " ORDER BY papers.year DESC, papers.title COLLATE NOCASE, papers.id"

	authorSubquery = "papers.id IN (SELECT paper_authors.paper_id FROM paper_authors JOIN authors ON authors.id = paper_authors.author_id WHERE %s)"
	tagSubquery    = "papers.id IN (SELECT paper_tags.paper_id FROM paper_tags JOIN tags ON tags.id = paper_tags.tag_id WHERE tags.name = ?)"
)

// Query renders the filters. Filters of the same kind are ORed, different
// kinds are ANDed. With no filters every paper matches.
func (h *Helper) Query() Query {
	var (
		clauses []string
		args    []any
	)
	for k := Year; k <= Keyword; k++ {
		var group []string
		for _, f := range h.filters {
			if f.Kind != k {
				continue
			}
			cond, condArgs := condition(f)
			group = append(group, cond)
			args = append(args, condArgs...)
		}
		switch len(group) {
		case 0:
		case 1:
			clauses = append(clauses, group[0])
		default:
			clauses = append(clauses, "("+strings.Join(group, " OR ")+")")
		}
	}

	var b strings.Builder
	b.WriteString(selectIDs)
	if len(clauses) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(clauses, " AND "))
	}
	b.WriteString(orderIDs)
	return Query{SQL: b.String(), Args: args}
}

func condition(f Filter) (string, []any) {
	switch f.Kind {
	case Year:
		year, err := strconv.Atoi(strings.TrimSpace(f.Value))
		if err != nil {
			// Unparseable years match nothing.
			year = -1
		}
		return "papers.year = ?", []any{year}
	case BookTitle:
		return "papers.book_title = ?", []any{f.Value}
	case Author:
		return fmt.Sprintf(authorSubquery, "authors.name = ?"), []any{f.Value}
	case Tag:
		return tagSubquery, []any{f.Value}
	case Keyword:
		like := "%" + escapeLike(Fold(strings.TrimSpace(f.Value))) + "%"
		return "(" + FoldFunc + "(papers.title) LIKE ? ESCAPE '\\' OR " + FoldFunc + "(papers.book_title) LIKE ? ESCAPE '\\' OR " +
			fmt.Sprintf(authorSubquery, FoldFunc+`(authors.name) LIKE ? ESCAPE '\'`) + ")", []any{like, like, like}
	}
	return "0", nil
}

// FoldFunc is the SQL function keyword matching compares through. The
// database layer registers it with Fold as its body.
const FoldFunc = "pl_fold"

// Fold case-folds s with full Unicode rules. SQLite's LIKE only folds ASCII.
func Fold(s string) string {
	// A Caser carries state, so each call gets its own.
	return cases.Fold().String(s)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
