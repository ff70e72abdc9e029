package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oukeidos/paperslight/internal/paper"
)

func newShowCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show every field of a paper",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := openLibrary(ctx, g)
			if err != nil {
				return err
			}
			p, err := s.Paper(ctx, id)
			if err != nil {
				return err
			}
			printPaper(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid paper id %q", s)
	}
	return id, nil
}

func printPaper(w io.Writer, p paper.Paper) {
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "%-10s %s\n", label+":", value)
		}
	}
	row("ID", strconv.FormatInt(p.ID, 10))
	row("Type", p.Type)
	row("Title", p.Title)
	row("Year", p.YearString())
	row("Venue", p.BookTitle)
	row("Authors", p.AuthorLine())
	row("Tags", strings.Join(p.Tags, ", "))
	row("Pages", p.Pages)
	row("Publisher", p.Publisher)
	row("URL", p.URL)
	row("Note", p.Note)
}
