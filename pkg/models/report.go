package models

import (
	"time"
)

// EventType identifies a report event
type EventType string

const (
	// EventSubtreeEntered opens a directory level, before any of its entries
	EventSubtreeEntered EventType = "subtree_entered"
	// EventLeftOnly reports an entry present only on the left
	EventLeftOnly EventType = "left_only"
	// EventRightOnly reports an entry present only on the right
	EventRightOnly EventType = "right_only"
	// EventTypeMismatch reports a name whose kind differs between sides
	EventTypeMismatch EventType = "type_mismatch"
	// EventDiffers reports a common file whose content differs
	EventDiffers EventType = "differs"
	// EventTruncated follows a differs event whose preview was cut short
	EventTruncated EventType = "truncated"
	// EventIdentical reports a common file with identical content
	EventIdentical EventType = "identical"
)

// Event is one step of the comparison report.
// Events are produced in depth-first pre-order and must be rendered in that order.
type Event struct {
	Type EventType

	// Path is the subtree path relative to both roots ("" for the roots)
	Path string

	// Name is the entry name within Path (empty for subtree_entered)
	Name string

	// Result is set for differs, truncated and identical events
	Result *FileResult

	// LeftKind and RightKind are set for type_mismatch events
	LeftKind  EntryKind
	RightKind EntryKind
}

// Summary holds counters accumulated over a run
type Summary struct {
	RunID     string
	LeftRoot  string
	RightRoot string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	DirsCompared    int
	LeftOnly        int
	RightOnly       int
	Mismatched      int
	Identical       int
	DifferingText   int
	DifferingBinary int
	Truncated       int

	// KeepDifferences makes Record retain non-identical events, with their
	// previews, in Differences
	KeepDifferences bool

	// Differences holds the non-identical events when KeepDifferences is set
	Differences []Event
}

// Record updates the counters for one event
func (s *Summary) Record(ev Event) {
	switch ev.Type {
	case EventSubtreeEntered:
		s.DirsCompared++
	case EventLeftOnly:
		s.LeftOnly++
		s.keep(ev)
	case EventRightOnly:
		s.RightOnly++
		s.keep(ev)
	case EventTypeMismatch:
		s.Mismatched++
		s.keep(ev)
	case EventDiffers:
		if ev.Result != nil && ev.Result.Kind == ContentBinary {
			s.DifferingBinary++
		} else {
			s.DifferingText++
		}
		s.keep(ev)
	case EventTruncated:
		s.Truncated++
	case EventIdentical:
		s.Identical++
	}
}

func (s *Summary) keep(ev Event) {
	if s.KeepDifferences {
		s.Differences = append(s.Differences, ev)
	}
}

// Differing returns the number of common files whose content differs
func (s *Summary) Differing() int {
	return s.DifferingText + s.DifferingBinary
}

// DifferenceCount returns the number of entries reported as not identical
func (s *Summary) DifferenceCount() int {
	return s.LeftOnly + s.RightOnly + s.Mismatched + s.Differing()
}

// HasDifferences reports whether the two trees differ at all
func (s *Summary) HasDifferences() bool {
	return s.DifferenceCount() > 0
}
