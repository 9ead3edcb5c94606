package llm

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a client at a stub Messages endpoint that replies
// with the given text.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-key", "test-model", 1024)
	c.BaseURL = srv.URL
	return c
}

func replyWith(t *testing.T, text string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("Anthropic-Version"))

		var req map[string]any
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "test-model", req["model"])
		assert.EqualValues(t, 1024, req["max_tokens"])

		resp := map[string]any{
			"content": []map[string]any{{"type": "text", "text": text}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}
}

func TestComplete(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, replyWith(t, "hello there"))
	out, err := c.Complete(t.Context(), "say hello")
	require.NoError(t, err)
	assert.Equal(t, "hello there", out)
}

func TestComplete_APIError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	})

	_, err := c.Complete(t.Context(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication_error")
}

func TestReviewChanges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		reply        string
		wantText     string
		wantCritical bool
	}{
		{
			name:     "clean review",
			reply:    "review:\nLooks good, no issues found.",
			wantText: "Looks good, no issues found.",
		},
		{
			name:         "critical ending",
			reply:        "review:\nHardcoded credential in config.go.\nSTOP_COMMIT",
			wantText:     "Hardcoded credential in config.go.\nSTOP_COMMIT",
			wantCritical: true,
		},
		{
			name:     "marker mentioned mid-text is not critical",
			reply:    "review:\nNothing would warrant STOP_COMMIT here; fine to proceed.",
			wantText: "Nothing would warrant STOP_COMMIT here; fine to proceed.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, replyWith(t, tt.reply))
			rev, err := c.ReviewChanges(t.Context(), "diff text", "")
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, rev.Text)
			assert.Equal(t, tt.wantCritical, rev.Critical)
		})
	}
}

func TestReviewChanges_MissingMarker(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, replyWith(t, "I looked at the diff and it seems fine."))
	_, err := c.ReviewChanges(t.Context(), "diff text", "")

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "review", genErr.Op)
}

func TestCommitMessage(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, replyWith(t, "message:Add retry to fetcher\n\n- Retries transient network failures"))
	msg, err := c.CommitMessage(t.Context(), "diff text", "review text", "")
	require.NoError(t, err)
	assert.Equal(t, "Add retry to fetcher\n\n- Retries transient network failures", msg)
}

func TestCommitMessage_MissingMarker(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, replyWith(t, "Here is a commit message for you"))
	_, err := c.CommitMessage(t.Context(), "diff", "review", "")

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "message", genErr.Op)
}
