package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{` _              __`, "#818cf8"},
	{`| | _____ _   _/ _|_ __ __ _ _ __ ___   ___`, "#a78bfa"},
	{"| |/ / _ \\ | | | |_| '__/ _` | '_ ` _ \\ / _ \\", "#c084fc"},
	{`|   <  __/ |_| |  _| | | (_| | | | | | |  __/`, "#e879f9"},
	{`|_|\_\___|\__, |_| |_|  \__,_|_| |_| |_|\___|`, "#f472b6"},
	{`          |___/`, "#fb7185"},
}

// PrintBanner writes the ASCII art banner to w. Nothing is written unless
// w is a terminal, so piped output stays machine-readable.
func PrintBanner(w io.Writer) {
	if !IsTerminal(w) {
		return
	}
	out := termenv.NewOutput(w)

	fmt.Fprintln(out)
	for _, l := range bannerLines {
		fmt.Fprintln(out, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(out)
}

// IsTerminal reports whether w is an *os.File attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
