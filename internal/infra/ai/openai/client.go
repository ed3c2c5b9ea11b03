package openai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/brandsentry/brandsentry/internal/domain/ai"
)

// DefaultModel is used when the config names none.
const DefaultModel = "gpt-4o-mini"

// Client implements the Generator port on top of OpenAI chat completions.
// Alternative provider to Gemini; same batching and parsing sit above it.
type Client struct {
	client   *openai.Client
	logger   *zap.Logger
	model    string
	settings ai.Settings
}

func NewClient(apiKey, model string, mode ai.Mode, logger *zap.Logger) *Client {
	if model == "" {
		model = DefaultModel
	}
	c := &Client{logger: logger, model: model, settings: ai.ModeSettings(mode)}
	if apiKey == "" {
		logger.Warn("OPENAI_API_KEY not found. Please set your API key.")
		return c
	}
	c.client = openai.NewClient(apiKey)
	logger.Info("OpenAI client initialized",
		zap.String("model", model),
		zap.String("analyst_mode", string(mode)),
		zap.String("mode_description", ai.ModeDescription(mode)))
	return c
}

// Configured reports whether the client holds a credential.
func (c *Client) Configured() bool {
	return c.client != nil
}

func (c *Client) Generate(ctx context.Context, promptText string) (ai.Response, error) {
	if !c.Configured() {
		return ai.Response{}, ai.ErrNotConfigured
	}

	seed := int(c.settings.Seed)
	req := openai.ChatCompletionRequest{
		Model: c.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		// The chat API has no top-k knob; temperature, top-p and seed
		// carry the analyst preset.
		Temperature: c.settings.Temperature,
		TopP:        c.settings.TopP,
		Seed:        &seed,
		MaxTokens:   int(c.settings.MaxOutputTokens),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: promptText},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return ai.Response{}, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return ai.Response{}, fmt.Errorf("empty response from openai")
	}

	return ai.Response{
		Text: resp.Choices[0].Message.Content,
		Usage: ai.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}
