package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/sdejongh/dirdiff/pkg/models"
)

// Local is a storage backend over a go-billy filesystem.
// NewLocal roots it at an OS directory; NewFromBilly accepts any billy
// filesystem, which tests use with memfs.
type Local struct {
	fs   billy.Filesystem
	root string
}

// NewLocal creates a backend rooted at an existing OS directory.
// A missing path or a non-directory yields a *models.NotADirectoryError.
func NewLocal(rootPath string) (*Local, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, &models.NotADirectoryError{Path: rootPath, Err: err}
	}

	if !info.IsDir() {
		return nil, &models.NotADirectoryError{Path: rootPath}
	}

	return &Local{fs: osfs.New(absPath), root: rootPath}, nil
}

// NewFromBilly wraps an arbitrary billy filesystem.
// root is only used for display.
func NewFromBilly(fsys billy.Filesystem, root string) *Local {
	return &Local{fs: fsys, root: root}
}

// ReadDir returns the immediate entries of a directory
func (l *Local) ReadDir(ctx context.Context, path string) ([]models.Entry, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	infos, err := l.fs.ReadDir(l.resolve(path))
	if err != nil {
		return nil, &models.IOError{Op: "readdir", Path: l.display(path), Err: err}
	}

	entries := make([]models.Entry, 0, len(infos))
	for _, info := range infos {
		// ReadDir does not follow symlinks; Stat does
		if info.Mode()&os.ModeSymlink != 0 {
			if target, err := l.fs.Stat(l.fs.Join(l.resolve(path), info.Name())); err == nil {
				info = target
			}
		}
		entries = append(entries, models.Entry{
			Name:    info.Name(),
			Kind:    kindOf(info),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	return entries, nil
}

// Read opens a file for reading
func (l *Local) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := l.fs.Open(l.resolve(path))
	if err != nil {
		return nil, &models.IOError{Op: "open", Path: l.display(path), Err: err}
	}

	return file, nil
}

// Stat returns file metadata
func (l *Local) Stat(ctx context.Context, path string) (*FileInfo, error) {
	info, err := l.fs.Stat(l.resolve(path))
	if err != nil {
		return nil, &models.IOError{Op: "stat", Path: l.display(path), Err: err}
	}

	return &FileInfo{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Kind:    kindOf(info),
	}, nil
}

// Join joins path elements
func (l *Local) Join(elem ...string) string {
	return l.fs.Join(elem...)
}

// Root returns the root path as given to the constructor
func (l *Local) Root() string {
	return l.root
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}

func (l *Local) resolve(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func (l *Local) display(path string) string {
	if path == "" {
		return l.root
	}
	return filepath.Join(l.root, path)
}

func kindOf(info os.FileInfo) models.EntryKind {
	switch {
	case info.Mode().IsRegular():
		return models.KindFile
	case info.IsDir():
		return models.KindDirectory
	default:
		return models.KindOther
	}
}
