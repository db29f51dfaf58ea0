package llm

import (
	"context"
	"cooked/internal/metrics"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ErrEmptyResponse is returned when the model answers without any choice.
var ErrEmptyResponse = errors.New("llm: empty response")

// Client is a thin wrapper around a hosted chat-completion model.
// It performs exactly one request per call and never retries.
type Client struct {
	client *openai.Client // OpenAI-compatible API client
	model  string         // model name used for every completion
}

// Complete sends a system prompt and a user message and returns the first choice.
// With jsonOutput the model is asked to answer with a JSON object.
func (c *Client) Complete(ctx context.Context, system, user string, jsonOutput bool) (string, error) {
	return c.create(ctx, jsonOutput, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: user},
	})
}

// CompleteWithImage sends a prompt together with an image given as a URL
// (usually a base64 "data:" URL) and returns the first choice.
func (c *Client) CompleteWithImage(ctx context.Context, system, prompt, imageURL string, jsonOutput bool) (string, error) {
	return c.create(ctx, jsonOutput, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: prompt},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    imageURL,
						Detail: openai.ImageURLDetailHigh,
					},
				},
			},
		},
	})
}

func (c *Client) create(ctx context.Context, jsonOutput bool, messages []openai.ChatCompletionMessage) (string, error) {
	request := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	}
	if jsonOutput {
		request.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	started := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, request)
	metrics.ObserveExternalCall("llm", started, err)
	if err != nil {
		return "", fmt.Errorf("llm completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	slog.Debug("[LLM] completion finished",
		"model", c.model,
		"promptTokens", resp.Usage.PromptTokens,
		"completionTokens", resp.Usage.CompletionTokens,
		"duration", time.Since(started))

	return resp.Choices[0].Message.Content, nil
}

// NewClient creates a model client.
// Parameters:
//   - apiKey: API key sent as a bearer token
//   - baseURL: API base URL; empty selects the default OpenAI endpoint
//   - model: chat model name
//   - timeout: timeout of a single HTTP request
func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	config.HTTPClient = &http.Client{
		Timeout: timeout,
	}

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}
