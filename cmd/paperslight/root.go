package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oukeidos/paperslight/internal/cleanup"
	"github.com/oukeidos/paperslight/internal/logger"
	"github.com/oukeidos/paperslight/internal/version"
)

type globalOptions struct {
	dbPath string
	debug  bool
}

func execute() {
	ctx, stop := signalContext()
	cmd := newRootCmd()
	err := cmd.ExecuteContext(ctx)
	stop()
	if cleanupErr := cleanup.RunAll(); cleanupErr != nil {
		fmt.Fprintln(os.Stderr, cleanupErr)
		if err == nil {
			err = cleanupErr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "paperslight",
		Short: "Papers Light: a small bibliography library",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadDotEnv(); err != nil {
				return err
			}
			level := logger.LevelWarn
			if opts.debug {
				level = logger.LevelDebug
			}
			logger.Init(level, nil)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if hasAnyFlagSet(cmd.Flags()) {
				_ = cmd.Usage()
				return fmt.Errorf("a command is required")
			}
			return cmd.Help()
		},
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cmd.Version = version.Info()
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetUsageTemplate(rootUsageTemplate)

	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to the library database (default $"+dbEnvVar+")")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(
		newAboutCmd(),
		newStatsCmd(opts),
		newListCmd(opts),
		newShowCmd(opts),
		newAddCmd(opts),
		newRemoveCmd(opts),
		newExportCmd(opts),
		newServeCmd(opts),
		newAdminCmd(),
	)

	cmd.InitDefaultCompletionCmd()
	for _, sub := range cmd.Commands() {
		if sub.Name() == "completion" {
			sub.Short = "Generate shell completion scripts"
			sub.SetUsageTemplate(subcommandUsageTemplate)
			break
		}
	}

	return cmd
}

func hasAnyFlagSet(flags *pflag.FlagSet) bool {
	changed := false
	flags.Visit(func(_ *pflag.Flag) {
		changed = true
	})
	return changed
}
