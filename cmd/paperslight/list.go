package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oukeidos/paperslight/internal/search"
)

const listTitleWidth = 60

type listOptions struct {
	years      []string
	bookTitles []string
	authors    []string
	tags       []string
	keyword    string
}

func newListCmd(g *globalOptions) *cobra.Command {
	opts := listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List papers, optionally filtered",
		Long: "List papers, newest first. Repeating a filter matches any of its values;\n" +
			"different filters must all match.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, g, &opts)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.Flags().StringArrayVar(&opts.years, "year", nil, "Publication year")
	cmd.Flags().StringArrayVar(&opts.bookTitles, "booktitle", nil, "Journal or proceedings title")
	cmd.Flags().StringArrayVar(&opts.authors, "author", nil, "Author name")
	cmd.Flags().StringArrayVar(&opts.tags, "tag", nil, "Tag")
	cmd.Flags().StringVarP(&opts.keyword, "keyword", "k", "", "Case-insensitive text in title, book title or author")
	return cmd
}

func (o *listOptions) helper() search.Helper {
	var h search.Helper
	add := func(kind search.Kind, values []string) {
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				h.AddFilter(search.Filter{Kind: kind, Value: v})
			}
		}
	}
	add(search.Year, o.years)
	add(search.BookTitle, o.bookTitles)
	add(search.Author, o.authors)
	add(search.Tag, o.tags)
	add(search.Keyword, []string{o.keyword})
	return h
}

func runList(cmd *cobra.Command, g *globalOptions, opts *listOptions) error {
	ctx := cmd.Context()
	s, err := openLibrary(ctx, g)
	if err != nil {
		return err
	}
	h := opts.helper()
	ids, err := s.QueryIDs(ctx, h.Query())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, id := range ids {
		p, err := s.Paper(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%6d  %s", p.ID, p.ListLabel(listTitleWidth))
		if a := p.AuthorLine(); a != "" {
			fmt.Fprintf(out, "  [%s]", a)
		}
		fmt.Fprintln(out)
	}
	if len(ids) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No papers match.")
	}
	return nil
}
