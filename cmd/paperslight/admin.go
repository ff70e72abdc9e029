package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage the web administrator password",
	}
	cmd.SetUsageTemplate(groupUsageTemplate)
	cmd.AddCommand(
		newAdminSetPasswordCmd(),
		newAdminDeleteCmd(),
		newAdminStatusCmd(),
	)
	return cmd
}

func newAdminSetPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-password",
		Short: "Save the admin password hash to the OS keychain (prompt only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("set-password needs an interactive terminal")
			}
			pw, err := promptPassword(cmd.ErrOrStderr(), "New admin password: ")
			if err != nil {
				return fmt.Errorf("error reading password: %w", err)
			}
			if pw == "" {
				return fmt.Errorf("password must not be empty")
			}
			again, err := promptPassword(cmd.ErrOrStderr(), "Repeat password: ")
			if err != nil {
				return fmt.Errorf("error reading password: %w", err)
			}
			if again != pw {
				return fmt.Errorf("passwords do not match")
			}
			if err := saveAdminPass(pw); err != nil {
				return fmt.Errorf("error saving password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved admin password to keychain.")
			return nil
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newAdminDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the admin password from the keychain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deleteAdmin(); err != nil {
				return fmt.Errorf("error deleting password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted admin password from keychain.")
			return nil
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newAdminStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show where the admin password comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, source := adminHash(true)
			if source == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Admin password: Not Set (keychain empty, env not set)")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Admin password: Set (source=%s)\n", source)
			return nil
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
