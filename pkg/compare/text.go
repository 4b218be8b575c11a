package compare

import (
	"context"
	"errors"
	"io"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/sdejongh/dirdiff/pkg/models"
	"github.com/sdejongh/dirdiff/pkg/storage"
)

// TextClassifier decides whether a file's bytes are valid UTF-8.
// The whole file is decoded; there is no sampling.
type TextClassifier struct {
	bufferPool *sync.Pool
}

// NewTextClassifier creates a classifier reading bufferSize bytes at a time
func NewTextClassifier(bufferSize int) *TextClassifier {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &TextClassifier{
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// IsText reports whether every byte of the file decodes as UTF-8.
// An invalid sequence is not an error: it returns false, nil.
func (c *TextClassifier) IsText(ctx context.Context, backend storage.Backend, path string) (bool, error) {
	reader, err := backend.Read(ctx, path)
	if err != nil {
		return false, err
	}
	defer reader.Close()

	validated := transform.NewReader(reader, encoding.UTF8Validator)

	bufPtr := c.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer c.bufferPool.Put(bufPtr)

	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
		}

		_, err := validated.Read(buffer)
		if err == io.EOF {
			return true, nil
		}
		if errors.Is(err, encoding.ErrInvalidUTF8) {
			return false, nil
		}
		if err != nil {
			return false, &models.IOError{Op: "read", Path: path, Err: err}
		}
	}
}
