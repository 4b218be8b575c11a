package compare

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/dirdiff/pkg/models"
	"github.com/sdejongh/dirdiff/pkg/storage"
)

// TestHelper provides utilities for comparator tests
type TestHelper struct {
	t       *testing.T
	tempDir string
	left    *storage.Local
	right   *storage.Local
}

// NewTestHelper creates a new test helper with temporary directories
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()

	tempDir := t.TempDir()
	leftDir := filepath.Join(tempDir, "left")
	rightDir := filepath.Join(tempDir, "right")

	require.NoError(t, os.MkdirAll(leftDir, 0755))
	require.NoError(t, os.MkdirAll(rightDir, 0755))

	left, err := storage.NewLocal(leftDir)
	require.NoError(t, err)
	right, err := storage.NewLocal(rightDir)
	require.NoError(t, err)

	return &TestHelper{t: t, tempDir: tempDir, left: left, right: right}
}

// CreateLeftFile creates a file in the left directory
func (h *TestHelper) CreateLeftFile(name string, content []byte) {
	h.t.Helper()
	h.write(filepath.Join(h.tempDir, "left", name), content)
}

// CreateRightFile creates a file in the right directory
func (h *TestHelper) CreateRightFile(name string, content []byte) {
	h.t.Helper()
	h.write(filepath.Join(h.tempDir, "right", name), content)
}

// SetModTime sets the modification time of a file on both sides
func (h *TestHelper) SetModTime(name string, modTime time.Time) {
	h.t.Helper()
	for _, side := range []string{"left", "right"} {
		require.NoError(h.t, os.Chtimes(filepath.Join(h.tempDir, side, name), modTime, modTime))
	}
}

func (h *TestHelper) write(path string, content []byte) {
	require.NoError(h.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(h.t, os.WriteFile(path, content, 0644))
}

// TestContentComparator tests the cheap equality gate
func TestContentComparator(t *testing.T) {
	h := NewTestHelper(t)
	ctx := context.Background()
	comparator := NewContentComparator(4096, false)

	t.Run("IdenticalFiles", func(t *testing.T) {
		h.CreateLeftFile("same.txt", []byte("identical content"))
		h.CreateRightFile("same.txt", []byte("identical content"))

		equal, err := comparator.Equal(ctx, h.left, h.right, "same.txt", "same.txt")
		require.NoError(t, err)
		assert.True(t, equal)
	})

	t.Run("DifferentSizes", func(t *testing.T) {
		h.CreateLeftFile("size.txt", []byte("short"))
		h.CreateRightFile("size.txt", []byte("much longer content"))

		equal, err := comparator.Equal(ctx, h.left, h.right, "size.txt", "size.txt")
		require.NoError(t, err)
		assert.False(t, equal)
	})

	t.Run("SameSizeDifferentContent", func(t *testing.T) {
		h.CreateLeftFile("content.txt", []byte("content1"))
		h.CreateRightFile("content.txt", []byte("content2"))

		equal, err := comparator.Equal(ctx, h.left, h.right, "content.txt", "content.txt")
		require.NoError(t, err)
		assert.False(t, equal)
	})

	t.Run("LargeFilesDifferInLastChunk", func(t *testing.T) {
		data := bytes.Repeat([]byte("x"), 3*4096+17)
		other := append([]byte(nil), data...)
		other[len(other)-1] = 'y'
		h.CreateLeftFile("large.bin", data)
		h.CreateRightFile("large.bin", other)

		equal, err := comparator.Equal(ctx, h.left, h.right, "large.bin", "large.bin")
		require.NoError(t, err)
		assert.False(t, equal)
	})

	t.Run("ExactMultipleOfBuffer", func(t *testing.T) {
		data := bytes.Repeat([]byte("z"), 2*4096)
		h.CreateLeftFile("exact.bin", data)
		h.CreateRightFile("exact.bin", data)

		equal, err := comparator.Equal(ctx, h.left, h.right, "exact.bin", "exact.bin")
		require.NoError(t, err)
		assert.True(t, equal)
	})

	t.Run("MissingFile", func(t *testing.T) {
		h.CreateLeftFile("gone.txt", []byte("x"))

		_, err := comparator.Equal(ctx, h.left, h.right, "gone.txt", "gone.txt")
		assert.Error(t, err)
	})

	t.Run("Shallow", func(t *testing.T) {
		shallow := NewContentComparator(4096, true)
		h.CreateLeftFile("stat.txt", []byte("aaaa"))
		h.CreateRightFile("stat.txt", []byte("bbbb"))
		h.SetModTime("stat.txt", time.Now().Add(-time.Hour).Truncate(time.Second))

		equal, err := shallow.Equal(ctx, h.left, h.right, "stat.txt", "stat.txt")
		require.NoError(t, err)
		assert.True(t, equal, "shallow mode trusts the size and mtime signature")

		equal, err = comparator.Equal(ctx, h.left, h.right, "stat.txt", "stat.txt")
		require.NoError(t, err)
		assert.False(t, equal)
	})
}

// TestTextClassifier tests UTF-8 detection
func TestTextClassifier(t *testing.T) {
	h := NewTestHelper(t)
	ctx := context.Background()
	classifier := NewTextClassifier(4096)

	tests := []struct {
		name    string
		content []byte
		want    bool
	}{
		{"Ascii", []byte("hello\nworld\n"), true},
		{"Empty", []byte{}, true},
		{"MultiByte", []byte("héllo wörld ✓\n"), true},
		{"NulIsValidUTF8", []byte("a\x00b"), true},
		{"InvalidByte", []byte{0xff, 0xfe, 0x00}, false},
		{"TruncatedSequence", []byte("ok\xe2\x82"), false},
		{"Surrogate", []byte("\xed\xa0\x80"), false},
		{"InvalidAfterFirstChunk", append(bytes.Repeat([]byte("a"), 10000), 0xc3, 0x28), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.CreateLeftFile(tt.name, tt.content)
			got, err := classifier.IsText(ctx, h.left, tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("SequenceAcrossChunkBoundary", func(t *testing.T) {
		content := append(bytes.Repeat([]byte("a"), 4095), []byte("é")...)
		h.CreateLeftFile("boundary.txt", content)
		got, err := classifier.IsText(ctx, h.left, "boundary.txt")
		require.NoError(t, err)
		assert.True(t, got)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := classifier.IsText(ctx, h.left, "does-not-exist")
		assert.Error(t, err)
	})
}

// TestBinaryComparator tests digest comparison
func TestBinaryComparator(t *testing.T) {
	h := NewTestHelper(t)
	ctx := context.Background()
	comparator := NewBinaryComparator(4096)

	t.Run("Name", func(t *testing.T) {
		assert.Equal(t, "binary", comparator.Name())
	})

	t.Run("DifferentContent", func(t *testing.T) {
		h.CreateLeftFile("img.bin", []byte{0x89, 0x50, 0x4e, 0x47, 0x01})
		h.CreateRightFile("img.bin", []byte{0x89, 0x50, 0x4e, 0x47, 0x02})

		result, err := comparator.Compare(ctx, h.left, h.right, "img.bin", "img.bin")
		require.NoError(t, err)
		assert.Equal(t, models.StatusDiffers, result.Status)
		assert.Equal(t, models.ContentBinary, result.Kind)
		assert.Empty(t, result.Preview.Records)
		assert.Len(t, result.LeftDigest, 64)
		assert.Len(t, result.RightDigest, 64)
		assert.NotEqual(t, result.LeftDigest, result.RightDigest)
	})

	t.Run("SameContent", func(t *testing.T) {
		h.CreateLeftFile("same.bin", []byte{0x00, 0x01})
		h.CreateRightFile("same.bin", []byte{0x00, 0x01})

		result, err := comparator.Compare(ctx, h.left, h.right, "same.bin", "same.bin")
		require.NoError(t, err)
		assert.Equal(t, models.StatusIdentical, result.Status)
		assert.Equal(t, result.LeftDigest, result.RightDigest)
	})
}

// TestFileComparator tests routing between the text and binary paths
func TestFileComparator(t *testing.T) {
	h := NewTestHelper(t)
	ctx := context.Background()
	comparator := NewFileComparator(Options{BufferSize: 4096})

	t.Run("Identical", func(t *testing.T) {
		h.CreateLeftFile("a.txt", []byte("hi\n"))
		h.CreateRightFile("a.txt", []byte("hi\n"))

		result, err := comparator.Compare(ctx, h.left, h.right, "a.txt", "a.txt")
		require.NoError(t, err)
		assert.Equal(t, models.StatusIdentical, result.Status)
	})

	t.Run("TextMismatch", func(t *testing.T) {
		h.CreateLeftFile("b.txt", []byte("l1\nl2\nl3\n"))
		h.CreateRightFile("b.txt", []byte("l1\nX2\nl3\n"))

		result, err := comparator.Compare(ctx, h.left, h.right, "b.txt", "b.txt")
		require.NoError(t, err)
		assert.Equal(t, models.StatusDiffers, result.Status)
		assert.Equal(t, models.ContentText, result.Kind)
		require.Len(t, result.Preview.Records, 1)
		assert.Equal(t, models.LineMismatch{Line: 2, Left: "l2\n", Right: "X2\n"}, result.Preview.Records[0])
		assert.False(t, result.Preview.Truncated)
	})

	t.Run("OneSideBinary", func(t *testing.T) {
		h.CreateLeftFile("c.dat", []byte("plain text\n"))
		h.CreateRightFile("c.dat", []byte{0xff, 0x00, 0xfe})

		result, err := comparator.Compare(ctx, h.left, h.right, "c.dat", "c.dat")
		require.NoError(t, err)
		assert.Equal(t, models.ContentBinary, result.Kind)
		assert.Equal(t, models.StatusDiffers, result.Status)
		assert.Empty(t, result.Preview.Records)
	})

	t.Run("Verbose", func(t *testing.T) {
		verbose := NewFileComparator(Options{Verbose: true})
		h.CreateLeftFile("d.txt", []byte("1\n2\n3\n4\n5\n"))
		h.CreateRightFile("d.txt", []byte("a\nb\nc\nd\ne\n"))

		result, err := verbose.Compare(ctx, h.left, h.right, "d.txt", "d.txt")
		require.NoError(t, err)
		assert.Len(t, result.Preview.Records, 5)
		assert.False(t, result.Preview.Truncated)

		result, err = comparator.Compare(ctx, h.left, h.right, "d.txt", "d.txt")
		require.NoError(t, err)
		assert.Len(t, result.Preview.Records, 3)
		assert.True(t, result.Preview.Truncated)
	})

	t.Run("Name", func(t *testing.T) {
		assert.Equal(t, "content", comparator.Name())
	})
}
