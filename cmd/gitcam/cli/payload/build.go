package payload

import (
	"context"
	"fmt"
	"strings"

	"github.com/gitcam/cli/cmd/gitcam/cli/gitx"
)

// Builder assembles the full model-facing payload: normalized diffs first,
// then repository history, then per-file history, all squeezed under the
// configured unit budget. Earlier blocks always win budget over later ones.
type Builder struct {
	Normalizer *Normalizer
	Selector   *Selector

	// Budget is the total unit allowance for the assembled payload.
	Budget int

	// Estimator maps text to units. Defaults to DefaultEstimator.
	Estimator Estimator
}

const (
	labelHistoryGlobal = "history:global"
	labelHistoryPrefix = "history:"
)

// Build produces a ContextPayload from the staged changes. The result is
// deterministic for a given input; callers hold on to it and reuse it
// verbatim across regeneration rounds.
func (b *Builder) Build(ctx context.Context, changes []gitx.StagedChange) (ContextPayload, error) {
	var p ContextPayload

	entries, err := b.Normalizer.Normalize(ctx, changes)
	if err != nil {
		return p, err
	}

	history, err := b.Selector.Select(changedPathsOf(entries))
	if err != nil {
		return p, err
	}

	blocks := make([]Block, 0, len(entries)+1+len(history.PerFile))
	for _, e := range entries {
		blocks = append(blocks, Block{Label: e.Path, Text: e.DiffText})
	}
	if g := history.RenderGlobal(); g != "" {
		blocks = append(blocks, Block{Label: labelHistoryGlobal, Text: g})
	}
	for _, ph := range history.PerFile {
		blocks = append(blocks, Block{Label: labelHistoryPrefix + ph.Path, Text: ph.Render()})
	}

	result := TruncateBlocks(blocks, b.Budget, b.estimator())

	// Map the budgeted blocks back onto the payload structure. Block order
	// mirrors construction order above, so a single cursor suffices; blocks
	// past the cut are absent from result.Blocks and stay empty.
	i := 0
	for ; i < len(entries) && i < len(result.Blocks); i++ {
		tb := result.Blocks[i]
		entries[i].DiffText = tb.Text
		entries[i].Truncated = tb.Truncated
	}
	for j := i; j < len(entries); j++ {
		entries[j].DiffText = ""
		entries[j].Truncated = true
	}
	p.Entries = entries

	if i < len(result.Blocks) && result.Blocks[i].Label == labelHistoryGlobal {
		p.HistoryGlobal = HistoryBlock{Text: result.Blocks[i].Text, Truncated: result.Blocks[i].Truncated}
		i++
	}
	for _, ph := range history.PerFile {
		if i >= len(result.Blocks) {
			break
		}
		tb := result.Blocks[i]
		p.HistoryPerFile = append(p.HistoryPerFile, PathHistoryBlock{
			Path:         ph.Path,
			HistoryBlock: HistoryBlock{Text: tb.Text, Truncated: tb.Truncated},
		})
		i++
	}

	p.Omitted = result.Omitted
	return p, nil
}

func (b *Builder) estimator() Estimator {
	if b.Estimator != nil {
		return b.Estimator
	}
	return DefaultEstimator
}

func changedPathsOf(entries []ChangeEntry) []string {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths
}

// EstimatedUnits reports the unit cost of the rendered payload under the
// builder's estimator.
func (b *Builder) EstimatedUnits(p ContextPayload) int {
	return b.estimator().Units(p.Render())
}

// Render flattens the payload into the prompt text sent to the model.
func (p ContextPayload) Render() string {
	var sb strings.Builder

	sb.WriteString("[START OF STAGED CHANGES]\n")
	for _, e := range p.Entries {
		header := fmt.Sprintf("=== %s (%s)", e.Path, e.Kind)
		if e.Kind == KindRenamed && e.PrevPath != "" {
			header = fmt.Sprintf("=== %s (renamed from %s)", e.Path, e.PrevPath)
		}
		sb.WriteString(header)
		if e.Truncated {
			sb.WriteString(" [truncated]")
		}
		sb.WriteString("\n")
		if e.DiffText != "" {
			sb.WriteString(e.DiffText)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("[END OF STAGED CHANGES]\n")

	if len(p.Omitted) > 0 {
		sb.WriteString("\nOmitted for size: ")
		sb.WriteString(strings.Join(p.Omitted, ", "))
		sb.WriteString("\n")
	}

	if p.HistoryGlobal.Text != "" {
		sb.WriteString("\n")
		sb.WriteString(p.HistoryGlobal.Text)
		sb.WriteString("\n")
	}
	for _, ph := range p.HistoryPerFile {
		if ph.Text == "" {
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(ph.Text)
		sb.WriteString("\n")
	}

	if p.HookBypassReason != "" {
		sb.WriteString("\nNote: pre-commit hooks were bypassed. Reason: ")
		sb.WriteString(p.HookBypassReason)
		sb.WriteString("\n")
	}

	if p.UserContext != "" {
		sb.WriteString("\nAdditional context from the user: ")
		sb.WriteString(p.UserContext)
		sb.WriteString("\n")
	}

	return sb.String()
}
