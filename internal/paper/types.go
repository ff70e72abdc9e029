package paper

import "sort"

// DefaultType is used when a paper is saved without a type.
const DefaultType = "article"

// Types maps each supported publication type to the attributes its editor
// and the web front end show, in display order.
var Types = map[string][]string{
	"article":       {"title", "author", "journal", "year", "pages", "publisher", "url"},
	"inproceedings": {"title", "author", "booktitle", "year", "pages", "publisher", "url"},
	"book":          {"title", "author", "year", "publisher", "url"},
	"incollection":  {"title", "author", "booktitle", "year", "pages", "publisher"},
	"phdthesis":     {"title", "author", "school", "year", "url"},
	"mastersthesis": {"title", "author", "school", "year", "url"},
	"techreport":    {"title", "author", "institution", "year", "url"},
	"misc":          {"title", "author", "year", "url", "note"},
}

// IsKnownType reports whether t is one of Types.
func IsKnownType(t string) bool {
	_, ok := Types[t]
	return ok
}

// TypeNames returns the type names sorted alphabetically.
func TypeNames() []string {
	names := make([]string, 0, len(Types))
	for name := range Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
