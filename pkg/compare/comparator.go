package compare

import (
	"context"

	"github.com/sdejongh/dirdiff/pkg/models"
	"github.com/sdejongh/dirdiff/pkg/storage"
)

// DefaultPreviewLimit is the number of difference items shown per file
// when not verbose
const DefaultPreviewLimit = 3

// Comparator defines the interface for file comparison algorithms
type Comparator interface {
	// Compare compares two files and returns the result
	Compare(ctx context.Context, left, right storage.Backend, leftPath, rightPath string) (*models.FileResult, error)

	// Name returns the name of the comparison method
	Name() string
}

// Options configures a FileComparator
type Options struct {
	// BufferSize is the read chunk size for hashing and byte comparison
	BufferSize int

	// Shallow trusts equal size and modification time without reading content
	Shallow bool

	// Verbose disables preview truncation
	Verbose bool

	// PreviewLimit caps the preview items per file when not verbose
	PreviewLimit int
}

// FileComparator runs the full per-file pipeline:
// cheap content equality, then text or binary comparison for files that differ
type FileComparator struct {
	content    *ContentComparator
	classifier *TextClassifier
	binary     *BinaryComparator
	verbose    bool
	limit      int
}

// NewFileComparator creates a file comparator from options
func NewFileComparator(opts Options) *FileComparator {
	limit := opts.PreviewLimit
	if limit < 1 {
		limit = DefaultPreviewLimit
	}
	return &FileComparator{
		content:    NewContentComparator(opts.BufferSize, opts.Shallow),
		classifier: NewTextClassifier(opts.BufferSize),
		binary:     NewBinaryComparator(opts.BufferSize),
		verbose:    opts.Verbose,
		limit:      limit,
	}
}

// Compare compares two common files.
// Identical content yields StatusIdentical with no Kind. Otherwise the file is
// diffed line by line when both sides are valid UTF-8, or by digest if not.
func (c *FileComparator) Compare(ctx context.Context, left, right storage.Backend, leftPath, rightPath string) (*models.FileResult, error) {
	equal, err := c.content.Equal(ctx, left, right, leftPath, rightPath)
	if err != nil {
		return nil, err
	}
	if equal {
		return &models.FileResult{Status: models.StatusIdentical}, nil
	}

	leftText, err := c.classifier.IsText(ctx, left, leftPath)
	if err != nil {
		return nil, err
	}
	rightText := false
	if leftText {
		rightText, err = c.classifier.IsText(ctx, right, rightPath)
		if err != nil {
			return nil, err
		}
	}

	if !leftText || !rightText {
		return c.binary.Compare(ctx, left, right, leftPath, rightPath)
	}

	leftLines, err := ReadLines(ctx, left, leftPath)
	if err != nil {
		return nil, err
	}
	rightLines, err := ReadLines(ctx, right, rightPath)
	if err != nil {
		return nil, err
	}

	return &models.FileResult{
		Status:  models.StatusDiffers,
		Kind:    models.ContentText,
		Preview: DiffLines(leftLines, rightLines, c.verbose, c.limit),
	}, nil
}

// Name returns the comparator name
func (c *FileComparator) Name() string {
	return "content"
}
