package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Formalizer banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Subtle teal to indigo gradient
	lines := []struct {
		text  string
		color string
	}{
		{"  ___                    _ _", "#2dd4bf"},
		{" | __|__ _ _ _ __  __ _ | (_)______ _ _", "#38bdf8"},
		{" | _/ _ \\ '_| '  \\/ _` || | |_ / -_) '_|", "#60a5fa"},
		{" |_|\\___/_| |_|_|_\\__,_||_|_/__\\___|_|", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
