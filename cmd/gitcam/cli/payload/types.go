// Package payload assembles the bounded context bundle sent to the message
// generation backend: normalized staged changes, recent history, and optional
// operator-supplied context, all truncated to a configured unit budget before
// the bundle is considered final.
package payload

import "errors"

// ErrEmptyChangeSet indicates nothing is staged for commit. Callers must
// report it and stop before entering the review flow.
var ErrEmptyChangeSet = errors.New("no changes staged for commit")

// ChangeKind classifies one staged file change.
type ChangeKind string

const (
	KindAdded    ChangeKind = "added"
	KindModified ChangeKind = "modified"
	KindDeleted  ChangeKind = "deleted"
	KindRenamed  ChangeKind = "renamed"
)

// ChangeEntry is one staged file change, immutable once the payload is built.
type ChangeEntry struct {
	Path     string
	PrevPath string // set when Kind is KindRenamed
	Kind     ChangeKind

	// DiffText is the unified-diff-style body, possibly truncated to fit the
	// budget. Empty for mode-only changes; the entry is still present.
	DiffText  string
	Truncated bool
}

// HistoryBlock is rendered history context, possibly truncated.
type HistoryBlock struct {
	Text      string
	Truncated bool
}

// PathHistoryBlock is the rendered history for one changed path.
type PathHistoryBlock struct {
	Path string
	HistoryBlock
}

// ContextPayload is the bundle handed to the generation backend. It is built
// exactly once per session; regeneration reuses it byte for byte.
type ContextPayload struct {
	Entries        []ChangeEntry
	HistoryGlobal  HistoryBlock
	HistoryPerFile []PathHistoryBlock

	// Omitted records the labels of blocks dropped entirely once the budget
	// ran out, so callers know context was cut.
	Omitted []string

	UserContext      string
	HookBypassReason string
}

// ChangedPaths returns the entry paths in payload order.
func (p *ContextPayload) ChangedPaths() []string {
	paths := make([]string, 0, len(p.Entries))
	for _, e := range p.Entries {
		paths = append(paths, e.Path)
	}
	return paths
}
