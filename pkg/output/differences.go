package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"code.cloudfoundry.org/bytefmt"

	"github.com/sdejongh/dirdiff/pkg/models"
)

// WriteDifferencesReport writes every difference of a run to a file.
// Format can be "human" or "json". No file is created when the trees match.
// The summary must have been recorded with KeepDifferences set.
func WriteDifferencesReport(summary *models.Summary, filepath string, format string) error {
	if !summary.HasDifferences() {
		return nil
	}
	if !summary.KeepDifferences {
		return fmt.Errorf("differences were not kept for this run")
	}

	file, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("failed to create differences file: %w", err)
	}
	defer file.Close()

	switch format {
	case "json":
		return writeDifferencesJSON(summary, file)
	default: // "human"
		return writeDifferencesHuman(summary, file)
	}
}

type differenceCategory int

const (
	categoryLeftOnly differenceCategory = iota
	categoryRightOnly
	categoryMismatch
	categoryText
	categoryBinary
)

func categorize(ev models.Event) differenceCategory {
	switch ev.Type {
	case models.EventLeftOnly:
		return categoryLeftOnly
	case models.EventRightOnly:
		return categoryRightOnly
	case models.EventTypeMismatch:
		return categoryMismatch
	}
	if ev.Result != nil && ev.Result.Kind == models.ContentBinary {
		return categoryBinary
	}
	return categoryText
}

// writeDifferencesHuman writes differences in human-readable format
func writeDifferencesHuman(summary *models.Summary, w io.Writer) error {
	fmt.Fprintf(w, "Differences Report\n")
	fmt.Fprintf(w, "==================\n\n")
	fmt.Fprintf(w, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "Run: %s\n", summary.RunID)
	fmt.Fprintf(w, "Left: %s\n", summary.LeftRoot)
	fmt.Fprintf(w, "Right: %s\n\n", summary.RightRoot)

	fmt.Fprintf(w, "Total Differences: %d\n\n", len(summary.Differences))

	byCategory := make(map[differenceCategory][]models.Event)
	for _, ev := range summary.Differences {
		c := categorize(ev)
		byCategory[c] = append(byCategory[c], ev)
	}

	labels := []struct {
		category differenceCategory
		label    string
	}{
		{categoryLeftOnly, "Only in Left"},
		{categoryRightOnly, "Only in Right"},
		{categoryMismatch, "Kind Mismatches"},
		{categoryText, "Text Differences"},
		{categoryBinary, "Binary Differences"},
	}

	for _, l := range labels {
		events := byCategory[l.category]
		if len(events) == 0 {
			continue
		}

		label := fmt.Sprintf("%s (%d entries)", l.label, len(events))
		fmt.Fprintf(w, "%s\n", label)
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", len(label)))

		for _, ev := range events {
			fmt.Fprintf(w, "  %s\n", relativeName(ev))

			switch {
			case ev.Type == models.EventTypeMismatch:
				fmt.Fprintf(w, "    Left:  %s\n", ev.LeftKind)
				fmt.Fprintf(w, "    Right: %s\n", ev.RightKind)
			case ev.Result != nil && ev.Result.Kind == models.ContentBinary:
				fmt.Fprintf(w, "    Left:  %s, sha256: %s\n", bytefmt.ByteSize(uint64(ev.Result.LeftSize)), shortDigest(ev.Result.LeftDigest))
				fmt.Fprintf(w, "    Right: %s, sha256: %s\n", bytefmt.ByteSize(uint64(ev.Result.RightSize)), shortDigest(ev.Result.RightDigest))
			case ev.Result != nil:
				fmt.Fprintf(w, "    Sizes: %s / %s, %d preview items", bytefmt.ByteSize(uint64(ev.Result.LeftSize)), bytefmt.ByteSize(uint64(ev.Result.RightSize)), ev.Result.Preview.Items())
				if ev.Result.Preview.Truncated {
					fmt.Fprintf(w, " (truncated)")
				}
				fmt.Fprintf(w, "\n")
			}
		}

		fmt.Fprintf(w, "\n")
	}

	return nil
}

// writeDifferencesJSON writes differences in JSON format
func writeDifferencesJSON(summary *models.Summary, w io.Writer) error {
	differences := make([]JSONEvent, 0, len(summary.Differences))
	for _, ev := range summary.Differences {
		differences = append(differences, toJSONEvent(ev))
	}

	output := struct {
		Generated   string      `json:"generated"`
		RunID       string      `json:"run_id"`
		Left        string      `json:"left"`
		Right       string      `json:"right"`
		TotalCount  int         `json:"total_count"`
		Differences []JSONEvent `json:"differences"`
	}{
		Generated:   time.Now().Format(time.RFC3339),
		RunID:       summary.RunID,
		Left:        summary.LeftRoot,
		Right:       summary.RightRoot,
		TotalCount:  len(differences),
		Differences: differences,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func relativeName(ev models.Event) string {
	if ev.Path == "" {
		return ev.Name
	}
	return ev.Path + "/" + ev.Name
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
