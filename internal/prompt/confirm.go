// Package prompt asks yes/no questions on the terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type Confirmer struct {
	In            io.Reader
	Out           io.Writer
	IsInteractive func() bool
}

func DefaultConfirmer() Confirmer {
	return Confirmer{
		In:  os.Stdin,
		Out: os.Stderr,
		IsInteractive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// ConfirmOverwrite asks before an export replaces an existing file.
func (c Confirmer) ConfirmOverwrite(path string, force bool) (bool, error) {
	return c.confirm(force, "use -y to overwrite existing output",
		"Warning: Output file %s already exists. Overwrite? (y/n): ", path)
}

// ConfirmRemove asks before a paper is deleted from the database.
func (c Confirmer) ConfirmRemove(title string, force bool) (bool, error) {
	return c.confirm(force, "use -y to remove without confirmation",
		"Remove paper %q? (y/n): ", title)
}

func (c Confirmer) confirm(force bool, hint, format string, args ...any) (bool, error) {
	if force {
		return true, nil
	}
	if c.IsInteractive == nil || !c.IsInteractive() {
		return false, fmt.Errorf("non-interactive stdin: %s", hint)
	}
	if c.Out != nil {
		fmt.Fprintf(c.Out, format, args...)
	}
	reader := bufio.NewReader(c.In)
	response, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
