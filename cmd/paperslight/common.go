package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/oukeidos/paperslight/internal/auth"
	"github.com/oukeidos/paperslight/internal/cleanup"
	"github.com/oukeidos/paperslight/internal/logger"
	"github.com/oukeidos/paperslight/internal/prompt"
	"github.com/oukeidos/paperslight/internal/store"
)

const dbEnvVar = "PAPERSLIGHT_DB"

var (
	isTerminal     = term.IsTerminal
	getenv         = os.Getenv
	openStore      = store.Open
	newConfirmer   = prompt.DefaultConfirmer
	promptPassword = auth.PromptForPassword
	saveAdminPass  = auth.SetAdminPassword
	deleteAdmin    = auth.DeleteAdminPassword
	adminHash      = auth.AdminHash
	dotEnvFile     = ".env"
)

// loadDotEnv merges a .env file from the working directory into the
// environment. Variables that are already set win.
func loadDotEnv() error {
	err := godotenv.Load(dotEnvFile)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", dotEnvFile, err)
}

func resolveDBPath(flagValue string) (string, error) {
	if p := strings.TrimSpace(flagValue); p != "" {
		return p, nil
	}
	if p := strings.TrimSpace(getenv(dbEnvVar)); p != "" {
		return p, nil
	}
	return "", fmt.Errorf("no database given: use --db or set %s", dbEnvVar)
}

// openLibrary opens the database and registers it for closing on exit.
func openLibrary(ctx context.Context, opts *globalOptions) (*store.Store, error) {
	path, err := resolveDBPath(opts.dbPath)
	if err != nil {
		return nil, err
	}
	s, err := openStore(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	logger.Debug("Database opened", "path", path)
	cleanup.Register(s.Close)
	return s, nil
}

func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("Cancellation requested")
			cancel()
		case <-ctx.Done():
		}
	}()
	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}
