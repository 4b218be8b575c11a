package output

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Theme holds the styles used by human-readable output
type Theme struct {
	Header *color.Color // section banners
	Group  *color.Color // "Files only in ..." headings
	Entry  *color.Color // "-- name" lines
	Line   *color.Color // "Difference at line N:"
	Label  *color.Color // file labels inside a preview
	Text   *color.Color // preview content
	Binary *color.Color // "Binary files differ:"
	Bold   *color.Color
}

// NewTheme creates the default theme.
// With enabled false every style renders plain text.
func NewTheme(enabled bool) *Theme {
	t := &Theme{
		Header: color.New(color.Bold, color.FgCyan),
		Group:  color.New(color.Bold, color.FgYellow),
		Entry:  color.New(color.Bold, color.FgGreen),
		Line:   color.New(color.Bold, color.FgRed),
		Label:  color.New(color.Bold, color.FgYellow),
		Text:   color.New(color.FgWhite),
		Binary: color.New(color.Bold, color.FgMagenta),
		Bold:   color.New(color.Bold),
	}

	for _, c := range []*color.Color{t.Header, t.Group, t.Entry, t.Line, t.Label, t.Text, t.Binary, t.Bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return t
}

// ColorEnabled resolves a color mode ("auto", "always" or "never") for w.
// In auto mode colors are used only when w is a terminal and NO_COLOR is unset.
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
