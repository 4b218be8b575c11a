package storage

import (
	"context"
	"io"
	"time"

	"github.com/sdejongh/dirdiff/pkg/models"
)

// FileInfo represents metadata about a file or directory
type FileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
	Kind    models.EntryKind
}

// IsDir reports whether the path is a directory
func (fi *FileInfo) IsDir() bool {
	return fi.Kind == models.KindDirectory
}

// Backend defines the read-only operations the comparison engine needs
// from one of the two compared trees. Paths are relative to the backend root.
type Backend interface {
	// ReadDir returns the immediate entries of a directory, sorted by name
	ReadDir(ctx context.Context, path string) ([]models.Entry, error)

	// Read opens a file for reading; the caller closes it
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Stat returns metadata, following symlinks
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Join joins path elements using the backend's separator
	Join(elem ...string) string

	// Root returns the root as given by the caller, for display
	Root() string

	// Close releases any resources held by the backend
	Close() error
}
