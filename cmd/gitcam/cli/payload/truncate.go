package payload

import (
	"sort"
	"unicode/utf8"
)

// Block is one candidate piece of context, labeled so omissions can be
// reported. Callers pass blocks in priority order: staged diffs first (in
// staged order), then global history, then per-file history.
type Block struct {
	Label string
	Text  string
}

// TruncatedBlock is a block after budgeting.
type TruncatedBlock struct {
	Label     string
	Text      string
	Truncated bool
}

// TruncationResult is the budgeted output. Blocks holds every block that
// survived (possibly shortened); Omitted holds the labels of blocks dropped
// entirely after the budget ran out.
type TruncationResult struct {
	Blocks  []TruncatedBlock
	Omitted []string
}

// TruncateBlocks applies the unit budget in a single greedy, order-respecting
// pass. Each block consumes budget in turn; the first block that does not fit
// is cut to the remaining budget (keeping its head), and every later block is
// omitted outright. There is no second pass: budget freed by an omitted block
// is never redistributed backwards.
//
// A budget of zero (or less) empties every block and flags it truncated.
func TruncateBlocks(blocks []Block, budget int, est Estimator) TruncationResult {
	var result TruncationResult

	if budget <= 0 {
		for _, b := range blocks {
			result.Blocks = append(result.Blocks, TruncatedBlock{Label: b.Label, Truncated: true})
		}
		return result
	}

	remaining := budget
	cut := false
	for _, b := range blocks {
		if cut {
			result.Omitted = append(result.Omitted, b.Label)
			continue
		}

		units := est.Units(b.Text)
		if units <= remaining {
			result.Blocks = append(result.Blocks, TruncatedBlock{Label: b.Label, Text: b.Text})
			remaining -= units
			continue
		}

		result.Blocks = append(result.Blocks, TruncatedBlock{
			Label:     b.Label,
			Text:      truncateToFit(b.Text, remaining, est),
			Truncated: true,
		})
		cut = true
	}

	return result
}

// truncateToFit returns the longest head of text whose estimated units do not
// exceed remaining. Works for any monotonic estimator via binary search on
// the prefix length.
func truncateToFit(text string, remaining int, est Estimator) string {
	if remaining <= 0 {
		return ""
	}

	// sort.Search finds the smallest prefix length that exceeds the budget;
	// everything before it fits.
	n := sort.Search(len(text)+1, func(i int) bool {
		return est.Units(text[:i]) > remaining
	})
	end := n - 1

	// Back off to a rune boundary so the cut never splits UTF-8.
	for end > 0 && end < len(text) && !utf8.RuneStart(text[end]) {
		end--
	}
	return text[:end]
}
