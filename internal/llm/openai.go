// Package llm holds the clients for the text-generation services used to write summaries.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"

	"github.com/sashabaranov/go-openai"

	"github.com/naka-gawa/myimpact/internal/apperrors"
)

const (
	// DefaultOpenAIModel is used when no model is configured.
	DefaultOpenAIModel = "gpt-4o-mini"

	maxTokens   = 2000
	temperature = 0.7
)

// OpenAI calls an OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	client *openai.Client
	model  string
	logger *log.Logger
}

// NewOpenAI creates a client for apiKey. An empty baseURL uses the public OpenAI endpoint.
func NewOpenAI(apiKey, model, baseURL string, logger *log.Logger) *OpenAI {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(config),
		model:  model,
		logger: logger,
	}
}

// Complete sends prompt as a single user message.
func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	o.logger.Printf("LLM: calling OpenAI chat completions (model=%s)", o.model)
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.ErrEmptyResponse
	}
	o.logger.Printf("LLM: received response (finish_reason=%s)", resp.Choices[0].FinishReason)
	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &apperrors.ServiceError{Status: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &apperrors.ServiceError{Status: reqErr.HTTPStatusCode, Body: reqErr.Error()}
	}
	if isMalformedBody(err) {
		return fmt.Errorf("%w AI response: %v", apperrors.ErrParse, err)
	}
	return &apperrors.ServiceError{Body: err.Error()}
}

// isMalformedBody reports whether err came from decoding a response body.
// Failures while sending the request or reading headers are *url.Error and never count.
func isMalformedBody(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return false
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}
