package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/brandsentry/brandsentry/internal/domain/ai"
)

// DefaultModel is used when the config names none.
const DefaultModel = "gemini-2.5-pro"

// Client wraps the Gemini API behind the Generator port. A client built
// without an API key is valid but unconfigured: Generate refuses to run
// and callers short-circuit.
type Client struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	logger    *zap.Logger
	modelName string
}

// NewClient creates a Gemini-backed Generator with the sampling preset of
// the given analyst mode. An empty API key yields an unconfigured client,
// not an error; the orchestrator decides whether that is fatal.
func NewClient(ctx context.Context, apiKey, modelName string, mode ai.Mode, logger *zap.Logger) (*Client, error) {
	if modelName == "" {
		modelName = DefaultModel
	}
	c := &Client{logger: logger, modelName: modelName}

	if apiKey == "" {
		logger.Warn("GEMINI_API_KEY not found. Please set your API key.")
		return c, nil
	}

	cli, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	s := ai.ModeSettings(mode)
	model := cli.GenerativeModel(modelName)
	// The SDK's GenerationConfig has no seed knob; reproducibility for
	// this provider rides on temperature, top-k and top-p alone.
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:     genai.Ptr[float32](s.Temperature),
		TopK:            genai.Ptr[int32](s.TopK),
		TopP:            genai.Ptr[float32](s.TopP),
		MaxOutputTokens: genai.Ptr[int32](s.MaxOutputTokens),
	}
	model.ResponseMIMEType = "application/json"

	c.client = cli
	c.model = model

	logger.Info("Google GenAI client initialized",
		zap.String("model", modelName),
		zap.String("analyst_mode", string(mode)),
		zap.String("mode_description", ai.ModeDescription(mode)))

	return c, nil
}

// Configured reports whether the client holds a credential.
func (c *Client) Configured() bool {
	return c.model != nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Generate issues one generation request and returns the response text
// plus token metering when the API carries it.
func (c *Client) Generate(ctx context.Context, promptText string) (ai.Response, error) {
	if !c.Configured() {
		return ai.Response{}, ai.ErrNotConfigured
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(promptText))
	if err != nil {
		return ai.Response{}, fmt.Errorf("gemini generate: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ai.Response{}, fmt.Errorf("empty response from gemini")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return ai.Response{}, fmt.Errorf("unexpected response type from gemini")
	}

	out := ai.Response{Text: string(text)}
	if resp.UsageMetadata != nil {
		out.Usage = ai.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return out, nil
}
