package output

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/sdejongh/dirdiff/pkg/models"
)

// JSONFormatter formats output as JSON for automation and scripting.
// Events are buffered and written as one document on Complete.
type JSONFormatter struct {
	writer io.Writer
	quiet  bool
	events []JSONEvent
	errors []string
}

// JSONEvent represents a single event in the JSON output
type JSONEvent struct {
	Type      string        `json:"type"`
	Path      string        `json:"path"`
	Name      string        `json:"name,omitempty"`
	LeftKind  string        `json:"left_kind,omitempty"`
	RightKind string        `json:"right_kind,omitempty"`
	File      *JSONFileData `json:"file,omitempty"`
}

// JSONFileData represents the comparison result of a common file
type JSONFileData struct {
	Status      string       `json:"status"`
	Kind        string       `json:"kind,omitempty"`
	LeftSize    int64        `json:"left_size"`
	RightSize   int64        `json:"right_size"`
	LeftDigest  string       `json:"left_digest,omitempty"`
	RightDigest string       `json:"right_digest,omitempty"`
	Preview     []JSONRecord `json:"preview,omitempty"`
	Truncated   bool         `json:"truncated,omitempty"`
}

// JSONRecord represents one preview record
type JSONRecord struct {
	Type  string   `json:"type"`
	Line  int      `json:"line,omitempty"`
	Left  string   `json:"left,omitempty"`
	Right string   `json:"right,omitempty"`
	Side  string   `json:"side,omitempty"`
	Start int      `json:"start,omitempty"`
	Lines []string `json:"lines,omitempty"`
}

// JSONReportData represents the final report
type JSONReportData struct {
	RunID      string        `json:"run_id"`
	Left       string        `json:"left"`
	Right      string        `json:"right"`
	StartedAt  string        `json:"started_at"`
	Duration   string        `json:"duration"`
	DurationMs int64         `json:"duration_ms"`
	Identical  bool          `json:"identical"`
	Stats      JSONStatsData `json:"stats"`
	Events     []JSONEvent   `json:"events,omitempty"`
	Errors     []string      `json:"errors,omitempty"`
}

// JSONStatsData represents the run counters
type JSONStatsData struct {
	DirsCompared    int `json:"dirs_compared"`
	LeftOnly        int `json:"left_only"`
	RightOnly       int `json:"right_only"`
	Mismatched      int `json:"type_mismatched"`
	Identical       int `json:"identical"`
	DifferingText   int `json:"differing_text"`
	DifferingBinary int `json:"differing_binary"`
	Truncated       int `json:"truncated"`
}

// NewJSONFormatter creates a new JSON formatter.
// In quiet mode only the summary is written.
func NewJSONFormatter(quiet bool) *JSONFormatter {
	return &JSONFormatter{
		quiet:  quiet,
		events: make([]JSONEvent, 0),
	}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(writer io.Writer, summary *models.Summary) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	f.events = f.events[:0]
	f.errors = nil
	return nil
}

// Emit buffers one event
func (f *JSONFormatter) Emit(ctx context.Context, ev models.Event) error {
	if f.quiet {
		return nil
	}
	f.events = append(f.events, toJSONEvent(ev))
	return nil
}

// Complete writes the report
func (f *JSONFormatter) Complete(summary *models.Summary) error {
	if f.writer == nil {
		f.writer = io.Discard
	}

	reportData := JSONReportData{
		RunID:      summary.RunID,
		Left:       summary.LeftRoot,
		Right:      summary.RightRoot,
		StartedAt:  summary.StartTime.Format(time.RFC3339),
		Duration:   summary.Duration.Round(time.Millisecond).String(),
		DurationMs: summary.Duration.Milliseconds(),
		Identical:  !summary.HasDifferences(),
		Stats:      toJSONStats(summary),
		Events:     f.events,
		Errors:     f.errors,
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(reportData)
}

// Error records a fatal error for the report
func (f *JSONFormatter) Error(err error) error {
	f.errors = append(f.errors, err.Error())
	return nil
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func toJSONStats(s *models.Summary) JSONStatsData {
	return JSONStatsData{
		DirsCompared:    s.DirsCompared,
		LeftOnly:        s.LeftOnly,
		RightOnly:       s.RightOnly,
		Mismatched:      s.Mismatched,
		Identical:       s.Identical,
		DifferingText:   s.DifferingText,
		DifferingBinary: s.DifferingBinary,
		Truncated:       s.Truncated,
	}
}

func toJSONEvent(ev models.Event) JSONEvent {
	out := JSONEvent{
		Type:      string(ev.Type),
		Path:      ev.Path,
		Name:      ev.Name,
		LeftKind:  string(ev.LeftKind),
		RightKind: string(ev.RightKind),
	}

	// The truncation marker only repeats the preceding differs event
	if ev.Result == nil || ev.Type == models.EventTruncated {
		return out
	}

	r := ev.Result
	file := &JSONFileData{
		Status:      string(r.Status),
		Kind:        string(r.Kind),
		LeftSize:    r.LeftSize,
		RightSize:   r.RightSize,
		LeftDigest:  r.LeftDigest,
		RightDigest: r.RightDigest,
		Truncated:   r.Preview.Truncated,
	}
	for _, rec := range r.Preview.Records {
		switch rec := rec.(type) {
		case models.LineMismatch:
			file.Preview = append(file.Preview, JSONRecord{
				Type:  string(rec.Type()),
				Line:  rec.Line,
				Left:  rec.Left,
				Right: rec.Right,
			})
		case models.ExtraLines:
			file.Preview = append(file.Preview, JSONRecord{
				Type:  string(rec.Type()),
				Side:  string(rec.Side),
				Start: rec.Start,
				Lines: rec.Lines,
			})
		}
	}
	out.File = file
	return out
}
