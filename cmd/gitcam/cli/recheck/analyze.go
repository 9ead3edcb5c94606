package recheck

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/gitcam/cli/cmd/gitcam/cli/logging"
)

// confirmThreshold is the number of generation calls above which the
// analyzer asks before spending them.
const confirmThreshold = 10

// insightCarryOver is how many batch summaries feed forward into the next
// batch's prompt.
const insightCarryOver = 3

// Completer issues one generation round trip. *llm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrNoFiles means the walk produced nothing analyzable.
var ErrNoFiles = fmt.Errorf("no suitable files found for analysis")

// ErrCancelled means the user declined the call-count confirmation.
var ErrCancelled = fmt.Errorf("analysis cancelled")

// Report is the outcome of a repository analysis.
type Report struct {
	Summary      string
	Tree         string
	FileCount    int
	SkippedCount int
	BatchCount   int
}

// Analyzer runs the full recheck pipeline: walk, batch, analyze each batch
// sequentially, then consolidate.
type Analyzer struct {
	Walker  *Walker
	Batcher *Batcher
	Client  Completer

	// Summarizer condenses batch findings for carry-over. Nil uses Client.
	Summarizer Completer

	// Confirm is asked before spending more than confirmThreshold calls.
	// Nil means always proceed.
	Confirm func(calls int) (bool, error)

	// Progress receives human-readable status lines. Nil discards them.
	Progress func(line string)
}

// Run analyzes the repository, optionally focused on a question. Batches
// are submitted strictly one after another so results keep walk order.
func (a *Analyzer) Run(ctx context.Context, question string) (Report, error) {
	ctx = logging.WithComponent(ctx, "recheck")
	var report Report

	excerpts, skipped, err := a.Walker.Collect(ctx)
	if err != nil {
		return report, err
	}
	if len(excerpts) == 0 {
		return report, ErrNoFiles
	}
	report.FileCount = len(excerpts)
	report.SkippedCount = skipped

	paths := make([]string, len(excerpts))
	var totalBytes int
	for i, e := range excerpts {
		paths[i] = e.Path
		totalBytes += len(e.Content)
	}
	report.Tree = RenderTree(paths)

	batches := a.Batcher.Split(excerpts)
	report.BatchCount = len(batches)
	a.progress(fmt.Sprintf("Found %d files for analysis (%d skipped), %s of excerpts in %d batches",
		len(excerpts), skipped, humanize.Bytes(uint64(totalBytes)), len(batches)))

	// Each batch costs one call, plus one for the final summary.
	calls := len(batches) + 1
	if calls > confirmThreshold && a.Confirm != nil {
		ok, err := a.Confirm(calls)
		if err != nil {
			return report, err
		}
		if !ok {
			return report, ErrCancelled
		}
	}

	var findings []string
	var insights string
	for i, batch := range batches {
		batchCtx := logging.WithBatch(ctx, i+1)
		a.progress(fmt.Sprintf("Analyzing batch %d/%d (%d files, %s)...",
			i+1, len(batches), len(batch.Files), humanize.Bytes(uint64(batch.TotalBytes))))

		start := time.Now()
		result, err := a.Client.Complete(batchCtx, batchPrompt(batch, question, insights))
		logging.LogDuration(batchCtx, slog.LevelInfo, "batch analyzed", start, "files", len(batch.Files))
		if err != nil {
			logging.Error(batchCtx, "batch analysis failed", "error", err.Error())
			a.progress(fmt.Sprintf("Batch %d failed: %v", i+1, err))
			continue
		}
		result = strings.TrimSpace(result)
		if result == "" {
			continue
		}
		findings = append(findings, result)
		insights = a.carryOver(batchCtx, insights, result)
	}

	if len(findings) == 0 {
		return report, fmt.Errorf("all batches failed")
	}

	a.progress("Generating final summary...")
	summary, err := a.Client.Complete(ctx, finalPrompt(findings, insights, question))
	if err != nil {
		// Consolidation is best effort; fall back to the raw findings.
		logging.Error(ctx, "final summary failed", "error", err.Error())
		report.Summary = strings.Join(findings, "\n\n")
		return report, nil
	}
	report.Summary = strings.TrimSpace(summary)
	return report, nil
}

func (a *Analyzer) progress(line string) {
	if a.Progress != nil {
		a.Progress(line)
	}
}

// carryOver condenses the latest findings and appends them to the rolling
// insight window, keeping only the most recent entries.
func (a *Analyzer) carryOver(ctx context.Context, insights, findings string) string {
	summarizer := a.Summarizer
	if summarizer == nil {
		summarizer = a.Client
	}

	prompt := fmt.Sprintf(`Extract the key insights and patterns from this analysis that would be most relevant for analyzing more files:

%s

Return a concise bullet-point summary of the most important findings that could inform further analysis.`, findings)

	condensed, err := summarizer.Complete(ctx, prompt)
	if err != nil {
		logging.Warn(ctx, "could not summarize batch insights", "error", err.Error())
		return insights
	}

	chunks := strings.Split(strings.TrimSpace(insights+"\n\n"+condensed), "\n\n")
	if len(chunks) > insightCarryOver {
		chunks = chunks[len(chunks)-insightCarryOver:]
	}
	return strings.TrimSpace(strings.Join(chunks, "\n\n"))
}

func batchPrompt(batch Batch, question, insights string) string {
	var files strings.Builder
	for _, f := range batch.Files {
		fmt.Fprintf(&files, "\nFile: %s\n", f.Path)
		fmt.Fprintf(&files, "[START OF FILE '%s']\n%s\n[END OF FILE '%s']\n", f.Path, f.Content, f.Path)
	}

	var carried string
	if insights != "" {
		carried = fmt.Sprintf(`Consider these previous findings while analyzing the next batch of files:
%s
Use the above findings to reinforce, or revise these insights based on the new files.

`, insights)
	}

	if question != "" {
		return fmt.Sprintf(`Analyze these files from a Git repository specifically focusing on this question/topic: %s

%sProvide relevant insights and recommendations related to this focus area.
If certain files aren't relevant to the question, you can skip them.
Keep recommendations clear and actionable.

Files to analyze:
%s`, question, carried, files.String())
	}

	return fmt.Sprintf(`Analyze these files from a Git repository and provide recommendations for improvements. Consider:

1. Project structure and organization
2. File naming and code conventions
3. Documentation completeness
4. Development workflow optimization
5. Dependencies management
6. Testing setup

%sOnly mention actionable improvements - no need to comment on things that are already well done.
Use bullet points for recommendations.

Files to analyze:
%s`, carried, files.String())
}

func finalPrompt(findings []string, insights, question string) string {
	overview := fmt.Sprintf(`Analysis was performed in %d batches.
Key patterns and insights discovered during analysis:
%s`, len(findings), insights)

	if question != "" {
		return fmt.Sprintf(`Review and consolidate these analysis results, specifically addressing this question/topic:

%s

%s

Provide a clear, organized summary that directly answers the question and provides relevant recommendations.

Analysis results:

%s`, question, overview, strings.Join(findings, "\n"))
	}

	return fmt.Sprintf(`Review and consolidate these analysis results into a prioritized set of recommendations for improving the repository. Group similar suggestions and focus on the most impactful improvements.

%s

Consider how patterns and issues evolved across different parts of the codebase.

Analysis results:

%s`, overview, strings.Join(findings, "\n"))
}
