// Package hash computes SHA-256 digests over file content and over the
// shallow identity of a directory.
package hash

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sdejongh/dirdiff/pkg/models"
	"github.com/sdejongh/dirdiff/pkg/storage"
)

// ChunkSize is the default and minimum read size
const ChunkSize = 4096

// Hasher streams content through SHA-256 in fixed-size chunks
type Hasher struct {
	bufferSize int
	bufferPool *sync.Pool
}

// New creates a hasher reading bufferSize bytes at a time
func New(bufferSize int) *Hasher {
	if bufferSize < ChunkSize {
		bufferSize = ChunkSize
	}
	return &Hasher{
		bufferSize: bufferSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// Reader returns the hex digest of everything read from r
func (h *Hasher) Reader(ctx context.Context, r io.Reader) (string, error) {
	hasher := sha256.New()
	if err := h.feed(ctx, hasher, r); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// File returns the hex digest of a file's full content
func (h *Hasher) File(ctx context.Context, backend storage.Backend, path string) (string, error) {
	reader, err := backend.Read(ctx, path)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	digest, err := h.Reader(ctx, reader)
	if err != nil {
		return "", &models.IOError{Op: "hash", Path: path, Err: err}
	}
	return digest, nil
}

// Directory returns the shallow identity digest of a directory.
//
// For every immediate child, files first and then directories, each group
// in name order, the digest absorbs the child's display path (display joined
// with the name) followed by the file's content. Directories contribute
// their path only. The result is one level deep and says nothing about the
// content of subdirectories.
//
// Because children are sorted rather than taken in listing order, digests
// differ from tools that hash in raw readdir order on filesystems that do not
// list entries sorted.
func (h *Hasher) Directory(ctx context.Context, backend storage.Backend, path, display string) (string, error) {
	entries, err := backend.ReadDir(ctx, path)
	if err != nil {
		return "", err
	}

	var files, dirs []models.Entry
	for _, e := range entries {
		if e.IsFile() {
			files = append(files, e)
		} else {
			dirs = append(dirs, e)
		}
	}

	hasher := sha256.New()
	for _, e := range append(files, dirs...) {
		io.WriteString(hasher, JoinDisplay(display, e.Name))
		if !e.IsFile() {
			continue
		}
		if err := h.feedFile(ctx, hasher, backend, backend.Join(path, e.Name)); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

func (h *Hasher) feedFile(ctx context.Context, w io.Writer, backend storage.Backend, path string) error {
	reader, err := backend.Read(ctx, path)
	if err != nil {
		return err
	}
	defer reader.Close()

	if err := h.feed(ctx, w, reader); err != nil {
		return &models.IOError{Op: "hash", Path: path, Err: err}
	}
	return nil
}

// feed copies r into w using a pooled buffer, checking ctx between chunks
func (h *Hasher) feed(ctx context.Context, w io.Writer, r io.Reader) error {
	bufPtr := h.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer h.bufferPool.Put(bufPtr)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := r.Read(buffer)
		if n > 0 {
			w.Write(buffer[:n])
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read: %w", err)
		}
	}
}

// JoinDisplay joins dir and name with one separator, without cleaning either,
// so "./a" stays "./a/name"
func JoinDisplay(dir, name string) string {
	if dir == "" || strings.HasSuffix(dir, "/") || strings.HasSuffix(dir, string(os.PathSeparator)) {
		return dir + name
	}
	return dir + string(os.PathSeparator) + name
}
