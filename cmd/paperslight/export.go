package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/oukeidos/paperslight/internal/files"
	"github.com/oukeidos/paperslight/internal/paper"
)

func newExportCmd(g *globalOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "export <out.json>",
		Short: "Write every paper to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := args[0]
			exists, err := files.Exists(out)
			if err != nil {
				return err
			}
			if exists {
				c := newConfirmer()
				c.Out = cmd.ErrOrStderr()
				ok, err := c.ConfirmOverwrite(out, force)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			ctx := cmd.Context()
			s, err := openLibrary(ctx, g)
			if err != nil {
				return err
			}
			papers, err := s.Papers(ctx)
			if err != nil {
				return err
			}
			if papers == nil {
				papers = []paper.Paper{}
			}
			err = files.AtomicWriteFunc(out, 0644, func(w io.Writer) error {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(papers)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d papers to %s.\n", len(papers), out)
			return nil
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.Flags().BoolVarP(&force, "yes", "y", false, "Overwrite an existing file without asking")
	return cmd
}
