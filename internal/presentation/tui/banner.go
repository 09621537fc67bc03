package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the lazyfetch banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// Using a subtle gradient-like color scheme (Teal/Sky)
	lines := []struct {
		text  string
		color string
	}{
		{` _                 __      _       _     `, "#2dd4bf"},
		{`| | __ _ _____   _/ _| ___| |_ ___| |__  `, "#22d3ee"},
		{`| |/ _' |_  / | | | |_ / _ \ __/ __| '_ \ `, "#38bdf8"},
		{`| | (_| |/ /| |_| |  _|  __/ || (__| | | |`, "#60a5fa"},
		{`|_|\__,_/___|\__, |_|  \___|\__\___|_| |_|`, "#818cf8"},
		{`              |___/                v` + version, "#a78bfa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
