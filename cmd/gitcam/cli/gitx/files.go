package gitx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WalkTrackedFiles returns every tracked path in index order. Index order is
// stable for a given repository state, which makes the recheck batch layout
// deterministic.
func (r *Repo) WalkTrackedFiles() ([]string, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}

	paths := make([]string, 0, len(idx.Entries))
	for _, entry := range idx.Entries {
		paths = append(paths, entry.Name)
	}
	return paths, nil
}

// ReadFile reads up to maxBytes of a tracked file from the working tree.
func (r *Repo) ReadFile(path string, maxBytes int64) ([]byte, error) {
	f, err := os.Open(filepath.Join(r.root, path)) //nolint:gosec // path comes from the git index
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// FileSize returns the working-tree size of a tracked file in bytes.
func (r *Repo) FileSize(path string) (int64, error) {
	info, err := os.Stat(filepath.Join(r.root, path))
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.Size(), nil
}
