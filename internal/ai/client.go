// Package ai talks to an OpenAI-compatible chat completion backend.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
)

// ErrNoChoices is returned when the backend answers without any completion.
var ErrNoChoices = errors.New("assistant returned no content choices")

// Request is one completion call: a system prompt plus the conversation so far.
type Request struct {
	Model    string
	System   string
	Messages []domain.ChatMessage
}

// Completion is the assistant's reply and the tokens the call consumed.
type Completion struct {
	Content     string
	Model       string
	TotalTokens int
}

// Config configures a Client.
type Config struct {
	BaseURL      string
	APIKey       string
	DefaultModel string
	MaxRetries   int
}

// Client wraps the OpenAI chat completions API.
type Client struct {
	client       openai.Client
	defaultModel string
	logger       *slog.Logger
}

// NewClient builds a client. An empty APIKey sends unauthenticated requests,
// which local OpenAI-compatible servers accept.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	options := []option.RequestOption{option.WithMaxRetries(cfg.MaxRetries)}
	if cfg.BaseURL != "" {
		options = append(options, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKey == "" {
		logger.Info("assistant API key is not set, using unauthenticated access")
	} else {
		options = append(options, option.WithAPIKey(cfg.APIKey))
	}

	return &Client{
		client:       openai.NewClient(options...),
		defaultModel: cfg.DefaultModel,
		logger:       logger,
	}
}

// DefaultModel returns the model used when a chat does not name one.
func (c *Client) DefaultModel() string {
	return c.defaultModel
}

// Complete sends the conversation and returns the assistant's reply.
func (c *Client) Complete(ctx context.Context, req Request) (*Completion, error) {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: toParams(req),
		Model:    model,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}

	c.logger.Debug("assistant replied", "model", resp.Model, "total_tokens", resp.Usage.TotalTokens)

	return &Completion{
		Content:     resp.Choices[0].Message.Content,
		Model:       resp.Model,
		TotalTokens: int(resp.Usage.TotalTokens),
	}, nil
}

func toParams(req Request) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		params = append(params, openai.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case domain.RoleAssistant:
			params = append(params, openai.AssistantMessage(m.Content))
		default:
			params = append(params, openai.UserMessage(m.Content))
		}
	}
	return params
}
