package payload

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitcam/cli/cmd/gitcam/cli/gitx"
)

type fakeDiffSource struct {
	diffs  map[string]string
	staged map[string]string
	head   map[string]string
}

func (f *fakeDiffSource) StagedDiff(_ context.Context, path string) (string, error) {
	return f.diffs[path], nil
}

func (f *fakeDiffSource) StagedContent(path string, maxBytes int64) ([]byte, error) {
	content := f.staged[path]
	if int64(len(content)) > maxBytes {
		content = content[:maxBytes]
	}
	return []byte(content), nil
}

func (f *fakeDiffSource) HeadContent(path string, maxBytes int64) ([]byte, error) {
	content := f.head[path]
	if int64(len(content)) > maxBytes {
		content = content[:maxBytes]
	}
	return []byte(content), nil
}

func TestNormalize_EmptyChangeSet(t *testing.T) {
	t.Parallel()

	n := &Normalizer{Source: &fakeDiffSource{}}
	_, err := n.Normalize(t.Context(), nil)
	assert.ErrorIs(t, err, ErrEmptyChangeSet)
}

func TestNormalize_ModifiedUsesStagedDiff(t *testing.T) {
	t.Parallel()

	n := &Normalizer{Source: &fakeDiffSource{
		diffs: map[string]string{"main.go": "@@ -1 +1 @@\n-old\n+new\n"},
	}}

	entries, err := n.Normalize(t.Context(), []gitx.StagedChange{
		{Path: "main.go", Code: gitx.CodeModified},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, KindModified, entries[0].Kind)
	assert.Equal(t, "@@ -1 +1 @@\n-old\n+new", entries[0].DiffText)
}

func TestNormalize_AddedSynthesizesAdditions(t *testing.T) {
	t.Parallel()

	n := &Normalizer{Source: &fakeDiffSource{
		staged: map[string]string{"new.go": "package x\n\nfunc F() {}\n"},
	}}

	entries, err := n.Normalize(t.Context(), []gitx.StagedChange{
		{Path: "new.go", Code: gitx.CodeAdded},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, KindAdded, entries[0].Kind)
	for _, line := range strings.Split(entries[0].DiffText, "\n") {
		assert.True(t, strings.HasPrefix(line, "+"), "line %q", line)
	}
	assert.Contains(t, entries[0].DiffText, "+func F() {}")
}

func TestNormalize_DeletedSynthesizesRemovals(t *testing.T) {
	t.Parallel()

	n := &Normalizer{Source: &fakeDiffSource{
		head: map[string]string{"gone.go": "package x\n\nvar dead = true\n"},
	}}

	entries, err := n.Normalize(t.Context(), []gitx.StagedChange{
		{Path: "gone.go", Code: gitx.CodeDeleted},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, KindDeleted, entries[0].Kind)
	for _, line := range strings.Split(entries[0].DiffText, "\n") {
		assert.True(t, strings.HasPrefix(line, "-"), "line %q", line)
	}
	assert.Contains(t, entries[0].DiffText, "-var dead = true")
}

func TestNormalize_RenameCarriesPrevPath(t *testing.T) {
	t.Parallel()

	n := &Normalizer{Source: &fakeDiffSource{
		diffs: map[string]string{"after.go": "similarity index 100%\n"},
	}}

	entries, err := n.Normalize(t.Context(), []gitx.StagedChange{
		{Path: "after.go", PrevPath: "before.go", Code: gitx.CodeRenamed},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, KindRenamed, entries[0].Kind)
	assert.Equal(t, "before.go", entries[0].PrevPath)
}

func TestNormalize_PreservesInputOrder(t *testing.T) {
	t.Parallel()

	n := &Normalizer{Source: &fakeDiffSource{
		diffs:  map[string]string{"b.go": "+b", "c.go": "+c"},
		staged: map[string]string{"a.go": "a\n"},
	}}

	entries, err := n.Normalize(t.Context(), []gitx.StagedChange{
		{Path: "b.go", Code: gitx.CodeModified},
		{Path: "a.go", Code: gitx.CodeAdded},
		{Path: "c.go", Code: gitx.CodeModified},
	})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "b.go", entries[0].Path)
	assert.Equal(t, "a.go", entries[1].Path)
	assert.Equal(t, "c.go", entries[2].Path)
}
