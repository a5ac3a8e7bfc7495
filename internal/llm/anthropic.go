package llm

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/naka-gawa/myimpact/internal/apperrors"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-sonnet-4-20250514"

// Anthropic calls the Anthropic Messages API.
type Anthropic struct {
	client *anthropic.Client
	model  string
	logger *log.Logger
}

// NewAnthropic creates a client for apiKey. Retries are disabled; failures are reported once.
func NewAnthropic(apiKey, model, baseURL string, logger *log.Logger) *Anthropic {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &Anthropic{
		client: anthropic.NewClient(opts...),
		model:  model,
		logger: logger,
	}
}

// Complete sends prompt as a single user message and returns the first text block.
func (a *Anthropic) Complete(ctx context.Context, prompt string) (string, error) {
	a.logger.Printf("LLM: calling Anthropic messages (model=%s)", a.model)
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.F(anthropic.Model(a.model)),
		MaxTokens:   anthropic.F(int64(maxTokens)),
		Temperature: anthropic.F(temperature),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		}),
	})
	if err != nil {
		return "", classifyAnthropicError(err)
	}
	if message == nil {
		return "", fmt.Errorf("%w AI response: empty or malformed body", apperrors.ErrParse)
	}

	for _, block := range message.Content {
		if block.Type == anthropic.ContentBlockTypeText {
			a.logger.Printf("LLM: received response (output_tokens=%d)", message.Usage.OutputTokens)
			return block.Text, nil
		}
	}
	return "", apperrors.ErrEmptyResponse
}

func classifyAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &apperrors.ServiceError{Status: apiErr.StatusCode, Body: apiErr.Error()}
	}
	if isMalformedBody(err) {
		return fmt.Errorf("%w AI response: %v", apperrors.ErrParse, err)
	}
	return &apperrors.ServiceError{Body: err.Error()}
}
