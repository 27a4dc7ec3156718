package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/onlysaid/onlysaid-kb/pkg/types"
)

// OpenAICompatible drives any OpenAI-compatible completion API (DeepSeek,
// OpenAI, local gateways) through langchaingo.
type OpenAICompatible struct {
	model llms.Model
}

// OpenAIConfig holds completion API configuration
type OpenAIConfig struct {
	Model   string
	APIKey  string
	BaseURL string
}

// NewOpenAICompatible creates an LLM backed by an OpenAI-compatible endpoint
func NewOpenAICompatible(cfg *OpenAIConfig) (*OpenAICompatible, error) {
	opts := []openai.Option{
		openai.WithModel(cfg.Model),
		openai.WithToken(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}
	return &OpenAICompatible{model: model}, nil
}

func (o *OpenAICompatible) Complete(ctx context.Context, prompt string) (string, error) {
	text, err := llms.GenerateFromSinglePrompt(ctx, o.model, prompt)
	if err != nil {
		return "", fmt.Errorf("completion failed: %v: %w", err, types.ErrLLM)
	}
	return text, nil
}

func (o *OpenAICompatible) StreamComplete(ctx context.Context, prompt string) (*Stream, error) {
	stream := NewStream(64)

	go func() {
		_, err := llms.GenerateFromSinglePrompt(ctx, o.model, prompt,
			llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
				return stream.Send(ctx, Delta{Kind: DeltaText, Text: string(chunk)})
			}),
		)
		if err != nil {
			err = fmt.Errorf("streaming completion failed: %v: %w", err, types.ErrLLM)
		}
		stream.Close(err)
	}()

	return stream, nil
}
