package recheck

import (
	"bytes"
	"context"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5/utils/binary"

	"github.com/gitcam/cli/cmd/gitcam/cli/logging"
)

// Source is the slice of the git facade the walker needs. *gitx.Repo
// satisfies it.
type Source interface {
	WalkTrackedFiles() ([]string, error)
	ReadFile(path string, maxBytes int64) ([]byte, error)
	FileSize(path string) (int64, error)
}

// DefaultDenylist excludes build artifacts, caches, and editor noise that
// tracked-file enumeration can still surface.
var DefaultDenylist = []string{
	"**/__pycache__/**",
	"**/node_modules/**",
	"**/dist/**",
	"**/build/**",
	"**/vendor/**",
	"**/.idea/**",
	"**/.vscode/**",
	"**/*.log",
	"**/*.tmp",
	"**/*.swp",
	"**/*.min.js",
	"**/*.min.css",
	"**/*.lock",
	"**/go.sum",
	"**/.DS_Store",
}

// Walker enumerates tracked text files and reads capped excerpts of each.
type Walker struct {
	Source Source

	// Denylist holds doublestar glob patterns matched against the
	// repository-relative path. Nil uses DefaultDenylist.
	Denylist []string

	// FileCap bounds each excerpt; zero means DefaultFileCap.
	FileCap int
}

// Collect walks the tracked files in the source's deterministic order and
// returns excerpts of every analyzable file. Binary files, empty files,
// and denylisted paths are skipped silently; files that fail to read are
// skipped with a logged warning and their count is reported.
func (w *Walker) Collect(ctx context.Context) (excerpts []FileExcerpt, skipped int, err error) {
	paths, err := w.Source.WalkTrackedFiles()
	if err != nil {
		return nil, 0, fmt.Errorf("enumerating tracked files: %w", err)
	}

	fileCap := w.FileCap
	if fileCap <= 0 {
		fileCap = DefaultFileCap
	}

	for _, path := range paths {
		if w.denied(path) {
			skipped++
			continue
		}

		content, err := w.Source.ReadFile(path, int64(fileCap))
		if err != nil {
			logging.Warn(logging.WithPath(ctx, path), "skipping unreadable file", "error", err.Error())
			skipped++
			continue
		}
		if len(content) == 0 {
			skipped++
			continue
		}
		if isBin, err := binary.IsBinary(bytes.NewReader(content)); err != nil || isBin {
			skipped++
			continue
		}

		size, err := w.Source.FileSize(path)
		if err != nil {
			size = int64(len(content))
		}
		excerpts = append(excerpts, FileExcerpt{
			Path:    path,
			Size:    size,
			Content: string(content),
		})
	}
	return excerpts, skipped, nil
}

func (w *Walker) denied(path string) bool {
	patterns := w.Denylist
	if patterns == nil {
		patterns = DefaultDenylist
	}
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}
