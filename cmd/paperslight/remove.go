package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRemoveCmd(g *globalOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a paper from the library",
		Args:    cobra.ExactArgs(1),
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
			c := newConfirmer()
			c.Out = cmd.ErrOrStderr()
			ok, err := c.ConfirmRemove(p.Title, force)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err := s.RemovePaper(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed paper %d.\n", id)
			return nil
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.Flags().BoolVarP(&force, "yes", "y", false, "Remove without asking")
	return cmd
}
