package paper

import "fmt"

// Stat is one row of a category list: a distinct value and how many papers
// carry it.
type Stat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Label is the text shown in category lists.
func (s Stat) Label() string {
	return fmt.Sprintf("%s (%d)", s.Name, s.Count)
}
