package llm

import (
	"context"
	"fmt"
	"strings"
)

// StopMarker flags a critical finding in a review. The review is only
// treated as blocking when it ends with the marker; a mid-text mention is
// the model talking about it, not raising it.
const StopMarker = "STOP_COMMIT"

// Review is the outcome of a code review generation.
type Review struct {
	Text string
	// Critical means the review ended with StopMarker.
	Critical bool
}

// ReviewChanges reviews the assembled change context. instructions carries
// the user's stored global instructions, possibly empty.
func (c *Client) ReviewChanges(ctx context.Context, payloadText, instructions string) (Review, error) {
	prompt := fmt.Sprintf(`Review this git diff for potential issues. The git history context helps you understand recent development patterns and the evolution of these files. If no significant issues are found, respond with a brief confirmation. If issues are found, provide specific details about:

- What problem does this change solve?
- Critical bugs or errors
- Security concerns
- Significant performance issues
- Major maintainability problems
- Unintentional debug printing to console
- Filename / code location of the found issues
- How this change fits with recent development patterns

If there is a critical issue, add the text "%s" to your response.

What counts as critical:
- Security vulnerabilities
- Exposed secrets or credentials
- Dangerous configuration changes
- Major data safety issues
- Critical performance problems
- Broken authentication
- Command injection risks

Global system instructions [Start]: %s [end system instructions]

Return your response in this format:
review:
[Your concise review here - one line if no issues, detailed explanation only if problems found, optional question for user clarification if required]

Here's the diff (remember, lines starting with + have been added, lines starting with - are removed):

%s`, StopMarker, instructions, payloadText)

	raw, err := c.Complete(ctx, prompt)
	if err != nil {
		return Review{}, &GenerationError{Op: "review", Err: err}
	}

	text, err := extractMarked(raw, "review:")
	if err != nil {
		return Review{}, &GenerationError{Op: "review", Err: err}
	}
	return Review{
		Text:     text,
		Critical: strings.HasSuffix(strings.TrimSpace(text), StopMarker),
	}, nil
}

// CommitMessage generates a commit message from the change context and the
// preceding review.
func (c *Client) CommitMessage(ctx context.Context, payloadText, reviewText, instructions string) (string, error) {
	prompt := fmt.Sprintf(`Analyse this git diff and code review to generate a commit message. Use insights from the review, git history context, and any user-provided context to make the commit message more descriptive of the changes' purpose and impact.

Be as concise as possible and avoid exaggerating minor changes to be more impactful than they are. The git history helps you understand the development patterns and context of this repository.

Code Review:
%s

Global system instructions [Start]: %s [end system instructions]

Return ONLY a string with a single key "message:" containing the commit message, e.g:
message:First line: Brief summary (max 50 chars)
<blank line>
- Following lines (if needed): Detailed explanation

Here's the diff:

%s`, reviewText, instructions, payloadText)

	raw, err := c.Complete(ctx, prompt)
	if err != nil {
		return "", &GenerationError{Op: "message", Err: err}
	}

	text, err := extractMarked(raw, "message:")
	if err != nil {
		return "", &GenerationError{Op: "message", Err: err}
	}
	return text, nil
}

// extractMarked returns everything after the first occurrence of marker,
// trimmed. A reply without the marker is unusable output.
func extractMarked(raw, marker string) (string, error) {
	_, after, found := strings.Cut(raw, marker)
	if !found {
		return "", fmt.Errorf("reply missing %q marker", marker)
	}
	return strings.TrimSpace(after), nil
}
