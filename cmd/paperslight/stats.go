package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oukeidos/paperslight/internal/paper"
	"github.com/oukeidos/paperslight/internal/search"
	"github.com/oukeidos/paperslight/internal/store"
)

type statsOptions struct {
	byCount bool
}

func newStatsCmd(g *globalOptions) *cobra.Command {
	opts := statsOptions{}
	cmd := &cobra.Command{
		Use:       "stats <year|booktitle|author|tag>",
		Short:     "Show paper counts per year, book title, author or tag",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"year", "booktitle", "author", "tag"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, g, &opts, args[0])
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.Flags().BoolVarP(&opts.byCount, "by-count", "c", false, "Sort by paper count instead of name")
	return cmd
}

func runStats(cmd *cobra.Command, g *globalOptions, opts *statsOptions, category string) error {
	kind, ok := search.ParseKind(category)
	if !ok || kind == search.Keyword {
		return fmt.Errorf("unknown category %q: use year, booktitle, author or tag", category)
	}
	ctx := cmd.Context()
	s, err := openLibrary(ctx, g)
	if err != nil {
		return err
	}

	order := store.SortByName
	if opts.byCount {
		order = store.SortByCount
	}
	stats, err := statsFor(ctx, s, kind, order)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, st := range stats {
		fmt.Fprintf(out, "%6d  %s\n", st.Count, st.Name)
	}
	return nil
}

func statsFor(ctx context.Context, s *store.Store, kind search.Kind, order store.SortOrder) ([]paper.Stat, error) {
	switch kind {
	case search.Year:
		return s.YearStats(ctx, order)
	case search.BookTitle:
		return s.BookTitleStats(ctx, order)
	case search.Author:
		return s.AuthorStats(ctx, order)
	default:
		return s.TagStats(ctx, order)
	}
}
