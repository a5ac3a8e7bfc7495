package usecase

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/myimpact/internal/apperrors"
	"github.com/naka-gawa/myimpact/internal/domain"
)

// fakeCompleter records every call it receives.
type fakeCompleter struct {
	calls   int
	prompts []string
	keys    []string
	reply   string
	err     error
}

func (f *fakeCompleter) factory(apiKey string) Completer {
	f.keys = append(f.keys, apiKey)
	return f
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func strPtr(s string) *string { return &s }

func samplePRs() []domain.PullRequest {
	return []domain.PullRequest{
		{
			Title:      "Add retry to uploader",
			URL:        "https://github.com/acme/api/pull/1",
			Body:       strPtr("Retries failed uploads."),
			ClosedAt:   "2024-02-01T00:00:00Z",
			Repository: domain.Repository{Name: "api", NameWithOwner: "acme/api"},
		},
		{
			Title:      "Remove dead flags",
			URL:        "https://github.com/acme/web/pull/2",
			ClosedAt:   "2024-03-01T00:00:00Z",
			Repository: domain.Repository{Name: "web", NameWithOwner: "acme/web"},
		},
	}
}

func TestSummaryGenerator_Preconditions(t *testing.T) {
	testCases := []struct {
		name        string
		apiKey      string
		prs         []domain.PullRequest
		expectedErr error
	}{
		{name: "empty credential", apiKey: "", prs: samplePRs(), expectedErr: apperrors.ErrMissingCredential},
		{name: "empty credential and no input", apiKey: "", prs: nil, expectedErr: apperrors.ErrMissingCredential},
		{name: "no pull requests", apiKey: "sk-test", prs: []domain.PullRequest{}, expectedErr: apperrors.ErrNoInput},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			completer := &fakeCompleter{reply: "unused"}
			generator := NewSummaryGenerator(completer.factory, log.New(io.Discard, "", 0))

			summary, err := generator.Summarize(context.Background(), tc.apiKey, tc.prs, "2024-01-01 to 2024-06-30", "acme")

			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Empty(t, summary)
			assert.Zero(t, completer.calls)
			assert.Empty(t, completer.keys)
		})
	}
}

func TestSummaryGenerator_Summarize(t *testing.T) {
	completer := &fakeCompleter{reply: "## Impact Summary\nI shipped things."}
	generator := NewSummaryGenerator(completer.factory, log.New(io.Discard, "", 0))

	summary, err := generator.Summarize(context.Background(), "sk-test", samplePRs(), "2024-01-01 to 2024-06-30", "acme")

	require.NoError(t, err)
	assert.Equal(t, "## Impact Summary\nI shipped things.", summary)
	assert.Equal(t, 1, completer.calls)
	assert.Equal(t, []string{"sk-test"}, completer.keys)
	assert.Equal(t, BuildPrompt(samplePRs(), "2024-01-01 to 2024-06-30", "acme"), completer.prompts[0])
}

func TestSummaryGenerator_ServiceErrorIsPassedThrough(t *testing.T) {
	completer := &fakeCompleter{err: &apperrors.ServiceError{Status: 429, Body: "rate limited"}}
	generator := NewSummaryGenerator(completer.factory, log.New(io.Discard, "", 0))

	_, err := generator.Summarize(context.Background(), "sk-test", samplePRs(), "range", "org")

	assert.ErrorIs(t, err, apperrors.ErrService)
	assert.Equal(t, 1, completer.calls)
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(samplePRs(), "2024-01-01 to 2024-06-30", "acme")

	assert.Contains(t, prompt, "from 2024-01-01 to 2024-06-30 at acme")
	assert.Contains(t, prompt, "Here are the 2 merged pull requests:")
	assert.Contains(t, prompt, "- **Add retry to uploader** (api)\n  Retries failed uploads.\n  Merged: 2024-02-01T00:00:00Z")
	assert.Contains(t, prompt, "- **Remove dead flags** (web)\n  No description\n  Merged: 2024-03-01T00:00:00Z")
	assert.Less(t, strings.Index(prompt, "Add retry to uploader"), strings.Index(prompt, "Remove dead flags"))

	for _, section := range []string{"Impact Summary", "Key Achievements", "Technical Growth", "Collaboration & Leadership", "Recommended Talking Points"} {
		assert.Contains(t, prompt, section)
	}
	assert.Contains(t, prompt, "NEVER invent or fabricate metrics")
	assert.Contains(t, prompt, `"15% improvement"`)
	assert.Contains(t, prompt, "Write in first person")
	assert.NotContains(t, prompt, "%!")

	assert.Equal(t, prompt, BuildPrompt(samplePRs(), "2024-01-01 to 2024-06-30", "acme"))
}

func TestBodyPreview(t *testing.T) {
	long := strings.Repeat("a", 250)
	exact := strings.Repeat("b", 200)
	multibyte := strings.Repeat("é", 201)

	testCases := []struct {
		name     string
		body     *string
		expected string
	}{
		{name: "absent body", body: nil, expected: "No description"},
		{name: "empty body", body: strPtr(""), expected: ""},
		{name: "250 characters are truncated", body: &long, expected: strings.Repeat("a", 200) + "..."},
		{name: "exactly 200 characters are kept", body: &exact, expected: exact},
		{name: "truncation counts characters", body: &multibyte, expected: strings.Repeat("é", 200) + "..."},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, bodyPreview(tc.body))
		})
	}
}
