package output

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sdejongh/dirdiff/pkg/hash"
	"github.com/sdejongh/dirdiff/pkg/models"
	"github.com/sdejongh/dirdiff/pkg/tree"
)

// Formatter renders the event stream of one comparison run.
// Formatters are tree sinks; they render events in the order received.
type Formatter interface {
	// Start initializes the formatter for a new run
	Start(writer io.Writer, summary *models.Summary) error

	// Emit renders one event
	Emit(ctx context.Context, ev models.Event) error

	// Complete finalizes output and displays the summary
	Complete(summary *models.Summary) error

	// Error reports a fatal error that aborted the run
	Error(err error) error

	// Name returns the formatter name
	Name() string
}

// NewFormatter returns the formatter for format ("human" or "json")
func NewFormatter(format string, theme *Theme, quiet bool) (Formatter, error) {
	switch format {
	case "human", "":
		return NewHumanFormatter(theme, quiet), nil
	case "json":
		return NewJSONFormatter(quiet), nil
	default:
		return nil, &models.ValidationError{
			Field:   "output.format",
			Message: fmt.Sprintf("unknown format %q", format),
		}
	}
}

// Recording returns a sink that counts every event into summary before
// passing it to next
func Recording(summary *models.Summary, next tree.Sink) tree.Sink {
	return tree.SinkFunc(func(ctx context.Context, ev models.Event) error {
		summary.Record(ev)
		return next.Emit(ctx, ev)
	})
}

// sidePath joins a root with relative paths for display.
// The root is kept as typed; empty elements are skipped.
func sidePath(root string, elem ...string) string {
	p := root
	for _, e := range elem {
		if e != "" {
			p = hash.JoinDisplay(p, filepath.FromSlash(e))
		}
	}
	return p
}
