// Package recheck analyzes the whole repository in size-bounded batches.
package recheck

// Default size caps for excerpting and batching.
const (
	// DefaultFileCap bounds how much of each file is read.
	DefaultFileCap = 4096
	// DefaultBatchCap bounds the combined excerpt size of one batch.
	DefaultBatchCap = 51200
)

// FileExcerpt is one file's contribution to a batch: up to FileCap bytes of
// its content, in walk order.
type FileExcerpt struct {
	Path string
	// Size is the full on-disk size, for reporting.
	Size int64
	// Content is the excerpt, already capped.
	Content string
}

// Batch is a sealed group of excerpts. Immutable once returned.
type Batch struct {
	Files      []FileExcerpt
	TotalBytes int
}

// Batcher groups excerpts into batches without ever crossing file
// boundaries.
type Batcher struct {
	BatchCap int
}

// Split seals batches in input order: a batch closes when the next excerpt
// would push it past the cap. An excerpt that alone exceeds the cap gets a
// batch of its own rather than being split further.
func (b *Batcher) Split(files []FileExcerpt) []Batch {
	limit := b.BatchCap
	if limit <= 0 {
		limit = DefaultBatchCap
	}

	var batches []Batch
	var current Batch
	seal := func() {
		if len(current.Files) > 0 {
			batches = append(batches, current)
			current = Batch{}
		}
	}

	for _, f := range files {
		size := len(f.Content)
		if size > limit {
			seal()
			batches = append(batches, Batch{Files: []FileExcerpt{f}, TotalBytes: size})
			continue
		}
		if current.TotalBytes+size > limit {
			seal()
		}
		current.Files = append(current.Files, f)
		current.TotalBytes += size
	}
	seal()
	return batches
}
