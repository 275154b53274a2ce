package cmd

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// palette holds the ANSI sequences used by informational subcommands.
// Every field is empty when w is not a color terminal.
type palette struct {
	yellow string
	cyan   string
	dim    string
	bold   string
	reset  string
}

func colorsFor(w io.Writer) palette {
	if shouldDisableColors(w) {
		return palette{}
	}
	return palette{
		yellow: "\033[0;33m",
		cyan:   "\033[0;36m",
		dim:    "\033[2m",
		bold:   "\033[1m",
		reset:  "\033[0m",
	}
}

func shouldDisableColors(w io.Writer) bool {
	// Check NO_COLOR environment variable (https://no-color.org/)
	if os.Getenv("NO_COLOR") != "" {
		return true
	}
	if os.Getenv("TERM") == "dumb" {
		return true
	}
	return termenv.NewOutput(w).ColorProfile() == termenv.Ascii
}
