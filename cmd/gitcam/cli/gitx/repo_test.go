package gitx

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initTestRepo creates a repository with the given files committed, returning
// the opened facade.
func initTestRepo(t *testing.T, commits []map[string]string) *Repo {
	t.Helper()

	dir := t.TempDir()
	gitRepo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := gitRepo.Worktree()
	require.NoError(t, err)

	when := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, files := range commits {
		for name, content := range files {
			require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o750))
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
			_, err = wt.Add(name)
			require.NoError(t, err)
		}
		sig := &object.Signature{Name: "test", Email: "test@example.com", When: when.Add(time.Duration(i) * time.Hour)}
		_, err = wt.Commit("commit "+string(rune('a'+i)), &git.CommitOptions{Author: sig, Committer: sig})
		require.NoError(t, err)
	}

	repo, err := OpenPath(dir)
	require.NoError(t, err)
	return repo
}

func TestOpenPath_NotARepository(t *testing.T) {
	t.Parallel()

	_, err := OpenPath(t.TempDir())
	assert.ErrorIs(t, err, ErrNotARepository)
}

func TestRecentCommits_NewestFirst(t *testing.T) {
	t.Parallel()

	repo := initTestRepo(t, []map[string]string{
		{"a.txt": "one"},
		{"b.txt": "two"},
		{"c.txt": "three"},
	})

	commits, err := repo.RecentCommits(2)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "commit c", commits[0].Subject)
	assert.Equal(t, "commit b", commits[1].Subject)
	assert.True(t, commits[0].When.After(commits[1].When))
}

func TestRecentCommits_FewerThanLimit(t *testing.T) {
	t.Parallel()

	repo := initTestRepo(t, []map[string]string{{"a.txt": "one"}})

	commits, err := repo.RecentCommits(10)
	require.NoError(t, err)
	assert.Len(t, commits, 1)
}

func TestRecentCommits_ZeroLimit(t *testing.T) {
	t.Parallel()

	repo := initTestRepo(t, []map[string]string{{"a.txt": "one"}})

	commits, err := repo.RecentCommits(0)
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestRecentCommitsForPath(t *testing.T) {
	t.Parallel()

	repo := initTestRepo(t, []map[string]string{
		{"a.txt": "one"},
		{"b.txt": "two"},
		{"a.txt": "one updated"},
	})

	commits, err := repo.RecentCommitsForPath("a.txt", 10)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "commit c", commits[0].Subject)
	assert.Equal(t, "commit a", commits[1].Subject)
}

func TestWalkTrackedFiles(t *testing.T) {
	t.Parallel()

	repo := initTestRepo(t, []map[string]string{
		{"b.txt": "two", "a.txt": "one", "sub/c.txt": "three"},
	})

	paths, err := repo.WalkTrackedFiles()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "b.txt", "sub/c.txt"}, paths)

	// Index order is deterministic across calls.
	again, err := repo.WalkTrackedFiles()
	require.NoError(t, err)
	assert.Equal(t, paths, again)
}

func TestReadFile_RespectsCap(t *testing.T) {
	t.Parallel()

	repo := initTestRepo(t, []map[string]string{{"big.txt": "0123456789"}})

	data, err := repo.ReadFile("big.txt", 4)
	require.NoError(t, err)
	assert.Equal(t, "0123", string(data))
}

func TestHeadContent(t *testing.T) {
	t.Parallel()

	repo := initTestRepo(t, []map[string]string{{"a.txt": "committed content"}})

	data, err := repo.HeadContent("a.txt", 1024)
	require.NoError(t, err)
	assert.Equal(t, "committed content", string(data))
}
