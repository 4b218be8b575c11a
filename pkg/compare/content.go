package compare

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/sdejongh/dirdiff/pkg/models"
	"github.com/sdejongh/dirdiff/pkg/storage"
)

// ContentComparator decides whether two files have identical bytes.
// It is the cheap gate in front of the text and binary paths.
type ContentComparator struct {
	bufferSize int
	bufferPool *sync.Pool
	shallow    bool
}

// NewContentComparator creates a content comparator.
// With shallow set, equal size and modification time count as identical
// without reading either file.
func NewContentComparator(bufferSize int, shallow bool) *ContentComparator {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &ContentComparator{
		bufferSize: bufferSize,
		shallow:    shallow,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// Equal reports whether both files hold the same bytes
func (c *ContentComparator) Equal(ctx context.Context, left, right storage.Backend, leftPath, rightPath string) (bool, error) {
	leftInfo, err := left.Stat(ctx, leftPath)
	if err != nil {
		return false, err
	}

	rightInfo, err := right.Stat(ctx, rightPath)
	if err != nil {
		return false, err
	}

	// Quick check: if sizes differ, files are different
	if leftInfo.Size != rightInfo.Size {
		return false, nil
	}

	if c.shallow && leftInfo.ModTime.Equal(rightInfo.ModTime) {
		return true, nil
	}

	leftReader, err := left.Read(ctx, leftPath)
	if err != nil {
		return false, err
	}
	defer leftReader.Close()

	rightReader, err := right.Read(ctx, rightPath)
	if err != nil {
		return false, err
	}
	defer rightReader.Close()

	leftBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(leftBufPtr)
	leftBuf := *leftBufPtr

	rightBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(rightBufPtr)
	rightBuf := *rightBufPtr

	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
		}

		leftN, leftErr := io.ReadFull(leftReader, leftBuf)
		rightN, rightErr := io.ReadFull(rightReader, rightBuf)

		if leftErr != nil && !isEnd(leftErr) {
			return false, &models.IOError{Op: "read", Path: leftPath, Err: leftErr}
		}
		if rightErr != nil && !isEnd(rightErr) {
			return false, &models.IOError{Op: "read", Path: rightPath, Err: rightErr}
		}

		if leftN != rightN || !bytes.Equal(leftBuf[:leftN], rightBuf[:rightN]) {
			return false, nil
		}

		if isEnd(leftErr) && isEnd(rightErr) {
			return true, nil
		}
	}
}

func isEnd(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
