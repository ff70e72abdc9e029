// Package files writes export files without leaving partial output behind.
package files

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/oukeidos/paperslight/internal/logger"
)

// AtomicWrite writes data to path through a temp file in the same directory.
func AtomicWrite(path string, data []byte, perms os.FileMode) error {
	return AtomicWriteFunc(path, perms, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// AtomicWriteFunc streams write's output into a temp file and renames it over
// path once write and the fsync succeed. Symlinked targets are refused.
func AtomicWriteFunc(path string, perms os.FileMode, write func(io.Writer) error) error {
	if err := RejectSymlinkPath(path); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "paperslight-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	committed := false
	defer func() {
		if !committed {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := tmpFile.Chmod(perms); err != nil {
		return fmt.Errorf("failed to set temp file permissions: %w", err)
	}
	bw := bufio.NewWriter(tmpFile)
	if err := write(bw); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := renameAtomic(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to destination: %w", err)
	}
	committed = true

	if err := syncDir(dir); err != nil {
		logger.Warn("Directory fsync failed", "path", dir, "error", err)
	}
	return nil
}

// Exists reports whether path names an existing file.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
