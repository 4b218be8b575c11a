package output

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"code.cloudfoundry.org/bytefmt"

	"github.com/sdejongh/dirdiff/pkg/models"
)

// HumanFormatter formats output in human-readable format.
// Each directory level gets a banner; group headings are printed when the
// first event of a group arrives.
type HumanFormatter struct {
	writer io.Writer
	theme  *Theme
	quiet  bool

	left  string
	right string
	group models.EventType
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter(theme *Theme, quiet bool) *HumanFormatter {
	if theme == nil {
		theme = NewTheme(false)
	}
	return &HumanFormatter{theme: theme, quiet: quiet}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, summary *models.Summary) error {
	if writer == nil {
		writer = io.Discard
	}
	f.writer = writer
	f.left = summary.LeftRoot
	f.right = summary.RightRoot
	f.group = ""
	return nil
}

// Emit renders one event
func (f *HumanFormatter) Emit(ctx context.Context, ev models.Event) error {
	if f.quiet || f.writer == nil {
		return nil
	}

	t := f.theme
	left := sidePath(f.left, ev.Path)
	right := sidePath(f.right, ev.Path)

	switch ev.Type {
	case models.EventSubtreeEntered:
		f.group = ""
		if ev.Path != "" {
			fmt.Fprintf(f.writer, "\n%s\n", t.Header.Sprintf("Comparing subdirectory: %s", ev.Path))
		}
		fmt.Fprintln(f.writer, t.Header.Sprint("=== Differences between directories ==="))

	case models.EventLeftOnly:
		f.heading(ev.Type, t.Group.Sprintf("Files only in %s", left))
		f.entry(ev.Name)

	case models.EventRightOnly:
		f.heading(ev.Type, t.Group.Sprintf("Files only in %s", right))
		f.entry(ev.Name)

	case models.EventTypeMismatch:
		f.heading(ev.Type, t.Group.Sprintf("Entries of different kinds in %s and %s", left, right))
		fmt.Fprintf(f.writer, "  %s %s\n", t.Entry.Sprintf("-- %s", ev.Name),
			t.Text.Sprintf("(%s vs %s)", ev.LeftKind, ev.RightKind))

	case models.EventDiffers:
		f.heading(ev.Type, t.Group.Sprintf("Files that differ between %s and %s", left, right))
		f.entry(ev.Name)
		if ev.Result != nil {
			f.preview(ev, sidePath(left, ev.Name), sidePath(right, ev.Name))
		}

	case models.EventTruncated:
		fmt.Fprintf(f.writer, "    %s (more differences not shown)\n", t.Group.Sprint("..."))

	case models.EventIdentical:
		f.heading(ev.Type, t.Header.Sprint("=== Files that are identical in both directories ==="))
		f.entry(ev.Name)
	}

	return nil
}

func (f *HumanFormatter) heading(group models.EventType, line string) {
	if f.group == group {
		return
	}
	f.group = group
	fmt.Fprintln(f.writer, line)
}

func (f *HumanFormatter) entry(name string) {
	fmt.Fprintf(f.writer, "  %s\n", f.theme.Entry.Sprintf("-- %s", name))
}

func (f *HumanFormatter) preview(ev models.Event, leftFile, rightFile string) {
	t := f.theme
	r := ev.Result

	if r.Kind == models.ContentBinary {
		fmt.Fprintf(f.writer, "    %s\n", t.Binary.Sprint("Binary files differ:"))
		fmt.Fprintf(f.writer, "      %s %s\n", t.Bold.Sprint(leftFile), t.Text.Sprintf("(%s, sha256 %s)", bytefmt.ByteSize(uint64(r.LeftSize)), r.LeftDigest))
		fmt.Fprintf(f.writer, "      %s %s\n", t.Bold.Sprint(rightFile), t.Text.Sprintf("(%s, sha256 %s)", bytefmt.ByteSize(uint64(r.RightSize)), r.RightDigest))
		return
	}

	for _, rec := range r.Preview.Records {
		switch rec := rec.(type) {
		case models.LineMismatch:
			fmt.Fprintf(f.writer, "    %s\n", t.Line.Sprintf("Difference at line %d:", rec.Line))
			fmt.Fprintf(f.writer, "      %s %s\n", t.Label.Sprintf("%s:", leftFile), t.Text.Sprint(strings.TrimSpace(rec.Left)))
			fmt.Fprintf(f.writer, "      %s %s\n", t.Label.Sprintf("%s:", rightFile), t.Text.Sprint(strings.TrimSpace(rec.Right)))
		case models.ExtraLines:
			file := leftFile
			if rec.Side == models.SideRight {
				file = rightFile
			}
			fmt.Fprintf(f.writer, "    %s\n", t.Label.Sprintf("Additional lines in %s starting at line %d:", file, rec.Start))
			for _, line := range rec.Lines {
				fmt.Fprintf(f.writer, "      %s\n", t.Text.Sprint(strings.TrimSpace(line)))
			}
		}
	}
}

// Complete finalizes output and displays summary
func (f *HumanFormatter) Complete(summary *models.Summary) error {
	if f.writer == nil {
		f.writer = io.Discard
	}
	t := f.theme

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Comparison completed in %s\n", summary.Duration.Round(time.Millisecond))
	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Summary:\n")
	fmt.Fprintf(f.writer, "  Left:   %s\n", summary.LeftRoot)
	fmt.Fprintf(f.writer, "  Right:  %s\n", summary.RightRoot)
	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "    Directories compared: %d\n", summary.DirsCompared)
	fmt.Fprintf(f.writer, "    Only in left:         %d\n", summary.LeftOnly)
	fmt.Fprintf(f.writer, "    Only in right:        %d\n", summary.RightOnly)
	fmt.Fprintf(f.writer, "    Kind mismatches:      %d\n", summary.Mismatched)
	fmt.Fprintf(f.writer, "    Differing files:      %d (text %d, binary %d)\n", summary.Differing(), summary.DifferingText, summary.DifferingBinary)
	fmt.Fprintf(f.writer, "    Identical files:      %d\n", summary.Identical)
	if summary.Truncated > 0 {
		fmt.Fprintf(f.writer, "    Truncated previews:   %d\n", summary.Truncated)
	}
	fmt.Fprintf(f.writer, "\n")

	if summary.HasDifferences() {
		fmt.Fprintf(f.writer, "Status: %s\n", t.Group.Sprint("differences found"))
	} else {
		fmt.Fprintf(f.writer, "Status: %s\n", t.Entry.Sprint("identical"))
	}

	return nil
}

// Error reports a fatal error
func (f *HumanFormatter) Error(err error) error {
	if f.writer != nil {
		fmt.Fprintf(f.writer, "%s %v\n", f.theme.Line.Sprint("Comparison aborted:"), err)
	}
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}
