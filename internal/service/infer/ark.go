package infer

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/sibyl-lab/sibyl-sft/internal/config"
)

// ArkGenerator adapts an eino Ark chat model to the Generator interface.
//
// It deliberately does not implement PromptTemplater: a chat-completions API
// applies its own template server-side, so handing it pre-templated text
// would wrap the conversation twice. The labeled-block fallback prompt is
// sent as a single user turn instead.
type ArkGenerator struct {
	chatModel model.ChatModel
	modelName string
}

// NewArkGenerator builds the remote generator from Ark configuration.
func NewArkGenerator(ctx context.Context, cfg config.AIConfig) (*ArkGenerator, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingDependency, err)
	}
	return &ArkGenerator{chatModel: chatModel, modelName: cfg.Model}, nil
}

// Name identifies the backing model.
func (g *ArkGenerator) Name() string { return g.modelName }

// Generate runs one blocking completion for the prompt.
func (g *ArkGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	var opts []model.Option
	if maxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(maxTokens))
	}

	out, err := g.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)}, opts...)
	if err != nil {
		return "", fmt.Errorf("ark generation failed: %w", err)
	}
	return out.Content, nil
}

// GenerateStream returns an incremental completion stream for the prompt,
// used by the serve-mode SSE endpoint.
func (g *ArkGenerator) GenerateStream(ctx context.Context, prompt string, maxTokens int) (*schema.StreamReader[*schema.Message], error) {
	var opts []model.Option
	if maxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(maxTokens))
	}

	stream, err := g.chatModel.Stream(ctx, []*schema.Message{schema.UserMessage(prompt)}, opts...)
	if err != nil {
		return nil, fmt.Errorf("ark stream failed: %w", err)
	}
	return stream, nil
}
