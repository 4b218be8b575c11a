package compare

import (
	"context"
	"io"
	"strings"

	"github.com/sdejongh/dirdiff/pkg/models"
	"github.com/sdejongh/dirdiff/pkg/storage"
)

// ReadLines reads a text file and splits it into lines that keep their
// terminator
func ReadLines(ctx context.Context, backend storage.Backend, path string) ([]string, error) {
	reader, err := backend.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, &models.IOError{Op: "read", Path: path, Err: err}
	}

	return SplitLines(string(data)), nil
}

// SplitLines splits text after every newline.
// "\r\n" and a lone "\r" are normalised to "\n" first. A final line without
// a terminator is kept as is.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// DiffLines compares two line sequences position by position.
//
// Every differing position yields a LineMismatch. Lines past the end of the
// shorter sequence yield one ExtraLines record per side. Unless verbose,
// a single counter shared by all three phases stops emission once limit items
// were emitted; each extra line counts as one item. Preview.Truncated is set
// when anything was withheld.
func DiffLines(left, right []string, verbose bool, limit int) models.Preview {
	var preview models.Preview
	emitted := 0
	full := func() bool {
		return !verbose && emitted >= limit
	}

	n := min(len(left), len(right))
	for i := 0; i < n; i++ {
		if left[i] == right[i] {
			continue
		}
		if full() {
			preview.Truncated = true
			break
		}
		preview.Records = append(preview.Records, models.LineMismatch{
			Line:  i + 1,
			Left:  left[i],
			Right: right[i],
		})
		emitted++
	}

	extra := func(side models.Side, lines []string) {
		if len(lines) == 0 {
			return
		}
		if full() {
			preview.Truncated = true
			return
		}
		record := models.ExtraLines{Side: side, Start: n + 1}
		for _, line := range lines {
			if full() {
				preview.Truncated = true
				break
			}
			record.Lines = append(record.Lines, line)
			emitted++
		}
		preview.Records = append(preview.Records, record)
	}

	extra(models.SideLeft, left[n:])
	extra(models.SideRight, right[n:])

	return preview
}
