package models

import "sort"

// DirectoryComparison partitions the entries of one directory level.
// The five name lists are disjoint, sorted, and together cover the union of
// both listings.
type DirectoryComparison struct {
	// LeftOnly names exist only in the left directory
	LeftOnly []string

	// RightOnly names exist only in the right directory
	RightOnly []string

	// CommonFiles are regular files on both sides
	CommonFiles []string

	// CommonDirs are directories on both sides
	CommonDirs []string

	// Mismatched names exist on both sides but cannot be compared as a pair:
	// a file on one side and a directory on the other, or an unclassifiable
	// entry on either side
	Mismatched []Mismatch
}

// Mismatch records a name whose kinds disagree between the two sides
type Mismatch struct {
	Name      string
	LeftKind  EntryKind
	RightKind EntryKind
}

// Partition builds the DirectoryComparison for two entry listings
func Partition(left, right []Entry) *DirectoryComparison {
	rightByName := make(map[string]Entry, len(right))
	for _, e := range right {
		rightByName[e.Name] = e
	}
	leftNames := make(map[string]struct{}, len(left))

	dc := &DirectoryComparison{}
	for _, l := range left {
		leftNames[l.Name] = struct{}{}
		r, ok := rightByName[l.Name]
		switch {
		case !ok:
			dc.LeftOnly = append(dc.LeftOnly, l.Name)
		case l.IsFile() && r.IsFile():
			dc.CommonFiles = append(dc.CommonFiles, l.Name)
		case l.IsDir() && r.IsDir():
			dc.CommonDirs = append(dc.CommonDirs, l.Name)
		default:
			dc.Mismatched = append(dc.Mismatched, Mismatch{
				Name:      l.Name,
				LeftKind:  l.Kind,
				RightKind: r.Kind,
			})
		}
	}
	for _, r := range right {
		if _, ok := leftNames[r.Name]; !ok {
			dc.RightOnly = append(dc.RightOnly, r.Name)
		}
	}

	sort.Strings(dc.LeftOnly)
	sort.Strings(dc.RightOnly)
	sort.Strings(dc.CommonFiles)
	sort.Strings(dc.CommonDirs)
	sort.Slice(dc.Mismatched, func(i, j int) bool {
		return dc.Mismatched[i].Name < dc.Mismatched[j].Name
	})

	return dc
}

// FileStatus is the outcome of comparing two common files
type FileStatus string

const (
	// StatusIdentical means the contents are equal
	StatusIdentical FileStatus = "identical"
	// StatusDiffers means the contents differ
	StatusDiffers FileStatus = "differs"
)

// ContentKind tells how a differing file was compared
type ContentKind string

const (
	// ContentText files were compared line by line
	ContentText ContentKind = "text"
	// ContentBinary files were compared by digest
	ContentBinary ContentKind = "binary"
)

// FileResult holds the comparison result for one common file
type FileResult struct {
	// Name is the base name of the file
	Name string

	// Status is identical or differs
	Status FileStatus

	// Kind is set when the file went through the text or binary path
	Kind ContentKind

	// Preview holds the bounded line differences (text only)
	Preview Preview

	// LeftDigest and RightDigest are set for binary comparisons
	LeftDigest  string
	RightDigest string

	// LeftSize and RightSize are the file sizes in bytes
	LeftSize  int64
	RightSize int64
}

// Preview is the bounded sequence of differences shown for one file
type Preview struct {
	Records []DiffRecord

	// Truncated is the terminal marker: more differences exist than were kept
	Truncated bool
}

// Items returns the number of counted items in the preview.
// A mismatch counts one, an ExtraLines record counts one per line.
func (p Preview) Items() int {
	n := 0
	for _, r := range p.Records {
		n += r.Items()
	}
	return n
}

// RecordType names a DiffRecord variant
type RecordType string

const (
	// RecordLineMismatch is a LineMismatch record
	RecordLineMismatch RecordType = "line_mismatch"
	// RecordExtraLines is an ExtraLines record
	RecordExtraLines RecordType = "extra_lines"
)

// DiffRecord is one entry of a preview: a LineMismatch or an ExtraLines
type DiffRecord interface {
	// Type returns the record variant
	Type() RecordType

	// Items returns how many truncation-counted items the record holds
	Items() int

	isDiffRecord()
}

// LineMismatch reports two different lines at the same position
type LineMismatch struct {
	// Line is 1-based
	Line  int
	Left  string
	Right string
}

func (LineMismatch) Type() RecordType { return RecordLineMismatch }
func (LineMismatch) Items() int       { return 1 }
func (LineMismatch) isDiffRecord()    {}

// ExtraLines reports lines present past the end of the shorter file
type ExtraLines struct {
	Side Side
	// Start is the 1-based number of the first extra line
	Start int
	Lines []string
}

func (ExtraLines) Type() RecordType { return RecordExtraLines }
func (e ExtraLines) Items() int     { return len(e.Lines) }
func (ExtraLines) isDiffRecord()    {}
