package recheck

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedCompleter replies in order and records every prompt.
type scriptedCompleter struct {
	prompts []string
	replies []string
	errs    map[int]error
	calls   int
}

func (c *scriptedCompleter) Complete(_ context.Context, prompt string) (string, error) {
	i := c.calls
	c.calls++
	c.prompts = append(c.prompts, prompt)
	if err := c.errs[i]; err != nil {
		return "", err
	}
	if i < len(c.replies) {
		return c.replies[i], nil
	}
	return "reply", nil
}

func testAnalyzer(files int, client *scriptedCompleter) *Analyzer {
	src := &fakeSource{contents: map[string]string{}}
	for i := 0; i < files; i++ {
		path := fmt.Sprintf("pkg/file%02d.go", i)
		src.files = append(src.files, path)
		src.contents[path] = strings.Repeat("x", 100)
	}
	return &Analyzer{
		Walker:  &Walker{Source: src},
		Batcher: &Batcher{BatchCap: 250}, // two 100-byte files per batch
		Client:  client,
	}
}

func TestAnalyzerRun_SequentialBatchesAndSummary(t *testing.T) {
	t.Parallel()

	client := &scriptedCompleter{replies: []string{
		"finding A", "insight A", // batch 1 + carry-over
		"finding B", "insight B", // batch 2
		"consolidated summary",
	}}
	a := testAnalyzer(4, client)

	report, err := a.Run(t.Context(), "")
	require.NoError(t, err)

	assert.Equal(t, 4, report.FileCount)
	assert.Equal(t, 2, report.BatchCount)
	assert.Equal(t, "consolidated summary", report.Summary)
	assert.Contains(t, report.Tree, "file00.go")

	// Batch 2's prompt carries batch 1's condensed insights.
	require.GreaterOrEqual(t, len(client.prompts), 3)
	assert.Contains(t, client.prompts[2], "insight A")
	assert.Contains(t, client.prompts[2], "[START OF FILE 'pkg/file02.go']")
}

func TestAnalyzerRun_InsightWindowKeepsLastThree(t *testing.T) {
	t.Parallel()

	a := &Analyzer{Client: &scriptedCompleter{}}
	insights := ""
	summarizer := &scriptedCompleter{replies: []string{"s1", "s2", "s3", "s4"}}
	a.Summarizer = summarizer

	for i := 0; i < 4; i++ {
		insights = a.carryOver(t.Context(), insights, fmt.Sprintf("finding %d", i))
	}
	chunks := strings.Split(insights, "\n\n")
	assert.Len(t, chunks, 3)
	assert.Equal(t, []string{"s2", "s3", "s4"}, chunks)
}

func TestAnalyzerRun_FailedBatchContinues(t *testing.T) {
	t.Parallel()

	client := &scriptedCompleter{
		errs: map[int]error{0: fmt.Errorf("rate limited")},
		replies: []string{
			"", // failed slot, unused
			"finding B", "insight B",
			"summary",
		},
	}
	a := testAnalyzer(4, client)

	report, err := a.Run(t.Context(), "")
	require.NoError(t, err)
	assert.Equal(t, "summary", report.Summary)
	assert.Equal(t, 2, report.BatchCount)
}

func TestAnalyzerRun_ConfirmsAboveTenCalls(t *testing.T) {
	t.Parallel()

	client := &scriptedCompleter{}
	a := testAnalyzer(30, client) // 15 batches + summary = 16 calls
	asked := 0
	a.Confirm = func(calls int) (bool, error) {
		asked = calls
		return false, nil
	}

	_, err := a.Run(t.Context(), "")
	require.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, 16, asked)
	assert.Zero(t, client.calls, "declined confirmation spends nothing")
}

func TestAnalyzerRun_QuestionShapesPrompts(t *testing.T) {
	t.Parallel()

	client := &scriptedCompleter{replies: []string{"finding", "insight", "answer"}}
	a := testAnalyzer(2, client)

	report, err := a.Run(t.Context(), "is error handling consistent?")
	require.NoError(t, err)
	assert.Equal(t, "answer", report.Summary)
	assert.Contains(t, client.prompts[0], "is error handling consistent?")
	assert.Contains(t, client.prompts[len(client.prompts)-1], "is error handling consistent?")
}

func TestAnalyzerRun_SummaryFailureFallsBackToFindings(t *testing.T) {
	t.Parallel()

	client := &scriptedCompleter{
		replies: []string{"finding A", "insight A"},
		errs:    map[int]error{2: fmt.Errorf("timeout")},
	}
	a := testAnalyzer(2, client)

	report, err := a.Run(t.Context(), "")
	require.NoError(t, err)
	assert.Equal(t, "finding A", report.Summary)
}

func TestAnalyzerRun_NoFiles(t *testing.T) {
	t.Parallel()

	a := &Analyzer{
		Walker:  &Walker{Source: &fakeSource{}},
		Batcher: &Batcher{},
		Client:  &scriptedCompleter{},
	}
	_, err := a.Run(t.Context(), "")
	assert.ErrorIs(t, err, ErrNoFiles)
}
