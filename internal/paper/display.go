package paper

import (
	"strings"

	"github.com/rivo/uniseg"
)

const ellipsis = "…"

// Truncate shortens s to at most width terminal cells, cutting on grapheme
// boundaries and ending with an ellipsis when anything was dropped.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}
	limit := width - uniseg.StringWidth(ellipsis)
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > limit {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	return strings.TrimRight(b.String(), " ") + ellipsis
}

// ListLabel is the one-line summary shown in paper lists.
func (p Paper) ListLabel(width int) string {
	label := p.Title
	if y := p.YearString(); y != "" {
		label = y + "  " + label
	}
	return Truncate(label, width)
}
