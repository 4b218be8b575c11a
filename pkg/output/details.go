package output

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sdejongh/dirdiff/pkg/hash"
	"github.com/sdejongh/dirdiff/pkg/storage"
)

// WriteDirectoryDetails prints the identity block of each root directory:
// base name, path, shallow digest and last modification time
func WriteDirectoryDetails(ctx context.Context, w io.Writer, theme *Theme, hasher *hash.Hasher, backends ...storage.Backend) error {
	if theme == nil {
		theme = NewTheme(false)
	}

	for _, backend := range backends {
		root := backend.Root()

		digest, err := hasher.Directory(ctx, backend, "", root)
		if err != nil {
			return fmt.Errorf("failed to hash %s: %w", root, err)
		}

		info, err := backend.Stat(ctx, "")
		if err != nil {
			return err
		}

		fmt.Fprintln(w, theme.Header.Sprintf("=== Directory Details: %s ===", root))
		fmt.Fprintln(w, theme.Entry.Sprintf("-- Directory: %s", filepath.Base(root)))
		fmt.Fprintf(w, "    %s\n", theme.Text.Sprintf("Path: %s", root))
		fmt.Fprintf(w, "    %s\n", theme.Text.Sprintf("Hash: %s", digest))
		fmt.Fprintf(w, "    %s\n", theme.Text.Sprintf("Last Modified: %s", info.ModTime.Format("2006-01-02 15:04:05")))
		fmt.Fprintln(w)
	}

	return nil
}
