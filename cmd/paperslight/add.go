package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oukeidos/paperslight/internal/paper"
)

type addOptions struct {
	p       paper.Paper
	authors []string
	tags    []string
}

func newAddCmd(g *globalOptions) *cobra.Command {
	opts := addOptions{}
	cmd := &cobra.Command{
		Use:   "add --title <title> [flags]",
		Short: "Add a paper to the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, g, &opts)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	f := cmd.Flags()
	f.StringVarP(&opts.p.Title, "title", "t", "", "Title (required)")
	f.StringVar(&opts.p.Type, "type", paper.DefaultType, "Publication type")
	f.IntVar(&opts.p.Year, "year", 0, "Publication year")
	f.StringVar(&opts.p.BookTitle, "booktitle", "", "Journal or proceedings title")
	f.StringArrayVarP(&opts.authors, "author", "a", nil, "Author, in order (repeatable; \"A; B\" also works)")
	f.StringArrayVar(&opts.tags, "tag", nil, "Tag (repeatable; \"a, b\" also works)")
	f.StringVar(&opts.p.Pages, "pages", "", "Pages")
	f.StringVar(&opts.p.Publisher, "publisher", "", "Publisher")
	f.StringVar(&opts.p.URL, "url", "", "URL")
	f.StringVar(&opts.p.Note, "note", "", "Free-form note")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.RegisterFlagCompletionFunc("type", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return paper.TypeNames(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func runAdd(cmd *cobra.Command, g *globalOptions, opts *addOptions) error {
	p := opts.p
	for _, a := range opts.authors {
		p.Authors = append(p.Authors, paper.SplitList(a)...)
	}
	for _, t := range opts.tags {
		p.Tags = append(p.Tags, paper.SplitList(t)...)
	}

	ctx := cmd.Context()
	s, err := openLibrary(ctx, g)
	if err != nil {
		return err
	}
	id, err := s.UpdatePaper(ctx, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added paper %d.\n", id)
	return nil
}
