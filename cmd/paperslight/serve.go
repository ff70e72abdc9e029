package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oukeidos/paperslight/internal/auth"
	"github.com/oukeidos/paperslight/internal/logger"
	"github.com/oukeidos/paperslight/internal/webapi"
)

type serveOptions struct {
	addr     string
	allowEnv bool
}

func newServeCmd(g *globalOptions) *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the library to the web front end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, g, &opts)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.Flags().StringVar(&opts.addr, "addr", "127.0.0.1:8080", "Listen address")
	cmd.Flags().BoolVar(&opts.allowEnv, "allow-env", true, "Accept the admin hash from PAPERSLIGHT_ADMIN_HASH")
	return cmd
}

func runServe(cmd *cobra.Command, g *globalOptions, opts *serveOptions) error {
	ctx := cmd.Context()
	s, err := openLibrary(ctx, g)
	if err != nil {
		return err
	}

	hash, source := adminHash(opts.allowEnv)
	verifier, err := auth.NewVerifier(auth.AdminUser(), hash)
	if err != nil {
		return err
	}
	if verifier.Enabled() {
		logger.Info("Admin login enabled", "user", verifier.User, "source", source)
	} else {
		fmt.Fprintln(cmd.ErrOrStderr(), "No admin password set; the library is read-only. Run 'paperslight admin set-password'.")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (Ctrl+C to stop)\n", opts.addr)
	return webapi.New(s, verifier).ListenAndServe(ctx, opts.addr)
}
