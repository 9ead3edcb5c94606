package payload

import (
	"context"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/gitcam/cli/cmd/gitcam/cli/gitx"
)

// maxSynthesizedBytes caps how much file content we read when synthesizing
// a diff body for added or deleted files.
const maxSynthesizedBytes = 8192

// DiffSource is the slice of the git facade the normalizer needs.
// *gitx.Repo satisfies it.
type DiffSource interface {
	StagedDiff(ctx context.Context, path string) (string, error)
	StagedContent(path string, maxBytes int64) ([]byte, error)
	HeadContent(path string, maxBytes int64) ([]byte, error)
}

// Normalizer turns raw staged changes into uniform payload entries.
type Normalizer struct {
	Source DiffSource
}

// Normalize converts staged changes into entries with a textual diff body
// for each, regardless of change kind. Returns ErrEmptyChangeSet when the
// input is empty.
func (n *Normalizer) Normalize(ctx context.Context, changes []gitx.StagedChange) ([]ChangeEntry, error) {
	if len(changes) == 0 {
		return nil, ErrEmptyChangeSet
	}

	entries := make([]ChangeEntry, 0, len(changes))
	for _, ch := range changes {
		entry, err := n.normalizeOne(ctx, ch)
		if err != nil {
			return nil, fmt.Errorf("normalizing %s: %w", ch.Path, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (n *Normalizer) normalizeOne(ctx context.Context, ch gitx.StagedChange) (ChangeEntry, error) {
	entry := ChangeEntry{
		Path:     ch.Path,
		PrevPath: ch.PrevPath,
		Kind:     kindFor(ch.Code),
	}

	var (
		body string
		err  error
	)
	switch ch.Code {
	case gitx.CodeAdded:
		body, err = n.synthesizeAdded(ch.Path)
	case gitx.CodeDeleted:
		body, err = n.synthesizeDeleted(ch.Path)
	default:
		body, err = n.Source.StagedDiff(ctx, ch.Path)
	}
	if err != nil {
		return entry, err
	}

	entry.DiffText = strings.TrimRight(body, "\n")
	return entry, nil
}

func kindFor(code gitx.StagedCode) ChangeKind {
	switch code {
	case gitx.CodeAdded:
		return KindAdded
	case gitx.CodeDeleted:
		return KindDeleted
	case gitx.CodeRenamed:
		return KindRenamed
	default:
		return KindModified
	}
}

// synthesizeAdded builds an all-additions body from the staged blob. New
// files sometimes produce an empty `git diff --cached -- path` when the
// index entry is intent-to-add, so we render the content directly.
func (n *Normalizer) synthesizeAdded(path string) (string, error) {
	content, err := n.Source.StagedContent(path, maxSynthesizedBytes)
	if err != nil {
		return "", err
	}
	return renderUnilateral("", string(content)), nil
}

// synthesizeDeleted builds an all-removals body from the HEAD blob.
func (n *Normalizer) synthesizeDeleted(path string) (string, error) {
	content, err := n.Source.HeadContent(path, maxSynthesizedBytes)
	if err != nil {
		return "", err
	}
	return renderUnilateral(string(content), ""), nil
}

// renderUnilateral diffs before against after line-wise and renders the
// result with +/- prefixes. With one side empty this yields a pure
// addition or removal body.
func renderUnilateral(before, after string) string {
	dmp := diffmatchpatch.New()
	beforeRunes, afterRunes, lines := dmp.DiffLinesToRunes(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(beforeRunes, afterRunes, false), lines)

	var b strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			b.WriteString(prefix)
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
