package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAboutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "about",
		Short: "Show a short description and link",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Papers Light: keep track of the papers you read, by year, venue, author and tag.")
			fmt.Fprintln(out, "https://github.com/oukeidos/paperslight")
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
