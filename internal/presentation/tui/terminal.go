package tui

import (
	"os"

	"golang.org/x/term"
)

// Width returns the column count of f when it is a terminal, or 0.
func Width(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}
