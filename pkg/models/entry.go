package models

import (
	"time"
)

// EntryKind classifies a directory entry
type EntryKind string

const (
	// KindFile is a regular file
	KindFile EntryKind = "file"
	// KindDirectory is a directory
	KindDirectory EntryKind = "directory"
	// KindOther covers sockets, devices, pipes and dangling symlinks
	KindOther EntryKind = "other"
)

// Entry is a named child of one directory level.
// Entries carry no identity across levels; they are listed again on every descent.
type Entry struct {
	// Name is the base name within its parent directory
	Name string

	// Kind is the entry type after following symlinks
	Kind EntryKind

	// Size in bytes (files only)
	Size int64

	// ModTime is the last modification time
	ModTime time.Time
}

// IsFile reports whether the entry is a regular file
func (e Entry) IsFile() bool {
	return e.Kind == KindFile
}

// IsDir reports whether the entry is a directory
func (e Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// Side identifies one of the two compared trees
type Side string

const (
	// SideLeft is the first directory given on the command line
	SideLeft Side = "left"
	// SideRight is the second directory given on the command line
	SideRight Side = "right"
)
