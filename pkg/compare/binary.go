package compare

import (
	"context"

	"github.com/sdejongh/dirdiff/pkg/hash"
	"github.com/sdejongh/dirdiff/pkg/models"
	"github.com/sdejongh/dirdiff/pkg/storage"
)

// BinaryComparator compares files by SHA-256 digest.
// Binary differences are reported as a fact; there is never a preview.
// Two different files with colliding digests are reported identical.
type BinaryComparator struct {
	hasher *hash.Hasher
}

// NewBinaryComparator creates a digest comparator
func NewBinaryComparator(bufferSize int) *BinaryComparator {
	return &BinaryComparator{hasher: hash.New(bufferSize)}
}

// Compare hashes both files and compares the digests
func (c *BinaryComparator) Compare(ctx context.Context, left, right storage.Backend, leftPath, rightPath string) (*models.FileResult, error) {
	leftDigest, err := c.hasher.File(ctx, left, leftPath)
	if err != nil {
		return nil, err
	}

	rightDigest, err := c.hasher.File(ctx, right, rightPath)
	if err != nil {
		return nil, err
	}

	status := models.StatusDiffers
	if leftDigest == rightDigest {
		status = models.StatusIdentical
	}

	return &models.FileResult{
		Status:      status,
		Kind:        models.ContentBinary,
		LeftDigest:  leftDigest,
		RightDigest: rightDigest,
	}, nil
}

// Name returns the comparator name
func (c *BinaryComparator) Name() string {
	return "binary"
}
