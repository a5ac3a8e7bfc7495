package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/naka-gawa/myimpact/internal/apperrors"
	"github.com/naka-gawa/myimpact/internal/domain"
)

const (
	bodyPreviewLimit = 200
	noDescription    = "No description"
)

// Completer sends a single prompt to a text-generation service and returns the first answer verbatim.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFactory builds a Completer bound to one credential.
type CompleterFactory func(apiKey string) Completer

// SummaryGenerator turns pull requests into a self-review narrative.
type SummaryGenerator struct {
	newCompleter CompleterFactory
	logger       *log.Logger
}

// NewSummaryGenerator creates a new SummaryGenerator instance.
func NewSummaryGenerator(newCompleter CompleterFactory, logger *log.Logger) *SummaryGenerator {
	return &SummaryGenerator{
		newCompleter: newCompleter,
		logger:       logger,
	}
}

// Summarize checks its inputs, builds the prompt and makes exactly one call to the service.
// Nothing is sent when the credential or the pull request list is empty.
func (g *SummaryGenerator) Summarize(ctx context.Context, apiKey string, prs []domain.PullRequest, dateRange, org string) (string, error) {
	if apiKey == "" {
		return "", apperrors.ErrMissingCredential
	}
	if len(prs) == 0 {
		return "", apperrors.ErrNoInput
	}

	prompt := BuildPrompt(prs, dateRange, org)
	g.logger.Printf("Usecase: Requesting summary for %d pull requests (%d prompt bytes)...", len(prs), len(prompt))

	summary, err := g.newCompleter(apiKey).Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	g.logger.Println("Usecase: Summary received.")
	return summary, nil
}

// BuildPrompt renders the fact-constrained self-review prompt. Output depends only on its inputs.
func BuildPrompt(prs []domain.PullRequest, dateRange, org string) string {
	items := make([]string, 0, len(prs))
	for _, pr := range prs {
		items = append(items, fmt.Sprintf("- **%s** (%s)\n  %s\n  Merged: %s",
			pr.Title, pr.Repository.Name, bodyPreview(pr.Body), pr.ClosedAt))
	}
	return fmt.Sprintf(promptTemplate, dateRange, org, len(prs), strings.Join(items, "\n\n"))
}

// bodyPreview keeps at most bodyPreviewLimit characters of the body.
func bodyPreview(body *string) string {
	if body == nil {
		return noDescription
	}
	runes := []rune(*body)
	if len(runes) <= bodyPreviewLimit {
		return *body
	}
	return string(runes[:bodyPreviewLimit]) + "..."
}

const promptTemplate = `You are an expert at writing performance review self-assessments for software engineers.

CRITICAL RULES:
- NEVER invent or fabricate metrics, percentages, or statistics (for example "15%% improvement" or "reduced load time by 30%%")
- NEVER claim outcomes that cannot be verified from the pull request data (for example "increased user engagement")
- Only describe what the pull requests actually show was built or changed
- Focus on the WORK DONE, not imagined business outcomes
- If the impact is unknown, describe the technical contribution without making up numbers

Based on the following merged pull requests from %s at %s, write a performance review summary with these sections:

1. **Impact Summary** (2-3 sentences): High-level overview of what was built or improved, without fabricated metrics.

2. **Key Achievements** (3-5 bullet points): Specific accomplishments based ONLY on what the pull requests show.

3. **Technical Growth**: Areas of technical skill demonstrated by the kinds of work in the pull requests.

4. **Collaboration & Leadership**: Only if clearly evidenced in the pull request descriptions (reviews, pairing, helping others).

5. **Recommended Talking Points**: 2-3 pull requests that look significant from their titles and descriptions, and why.

Here are the %d merged pull requests:

%s

Write in first person. Be professional and confident, but STICK TO THE FACTS shown in the pull requests. Describe what was built, not imagined outcomes.`
